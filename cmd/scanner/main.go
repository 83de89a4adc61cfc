package main

import (
	"log"

	"github.com/croftside/farm-management-api/internal/config"
	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/logging"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/services"
)

// One-shot harvest scan for external schedulers. The server runs the same
// scan on its internal schedule; this binary exists for setups that want
// system cron to drive it instead.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	errorLog, err := logging.NewErrorLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to open error log: %v", err)
	}

	landRepo := repository.NewLandRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	farmWorkRepo := repository.NewFarmWorkRepository(db)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	workMetaRepo := repository.NewWorkMetaRepository(db)

	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	bridgeService := services.NewFarmWorkNotificationService(farmWorkRepo, workMetaRepo, teamRepo, notificationService)
	harvestService := services.NewHarvestService(landRepo, notificationRepo, notificationService, bridgeService, errorLog)

	result, err := harvestService.CheckHarvestNotifications()
	if err != nil {
		log.Fatalf("Harvest scan failed: %v", err)
	}

	log.Printf("Harvest scan done: %d lands, %d created, %d updated, %d farm works, %d errors",
		result.LandsChecked, result.NotificationsCreated, result.NotificationsUpdated,
		result.FarmWorksCreated, len(result.Errors))
}

package services

import (
	"testing"
	"time"

	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type bridgeTestEnv struct {
	db               *gorm.DB
	notificationRepo repository.NotificationRepository
	service          *FarmWorkNotificationService
	owner            models.User
	lead             models.User
	workType         models.WorkType
}

func setupBridgeEnv(t *testing.T) bridgeTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	owner := models.User{Email: "owner@farm.test", PasswordHash: "x", Role: models.RoleContributor, IsActive: true}
	require.NoError(t, db.Create(&owner).Error)
	lead := models.User{Email: "lead@farm.test", PasswordHash: "x", Role: models.RoleContributor, IsActive: true}
	require.NoError(t, db.Create(&lead).Error)

	workType := models.WorkType{Name: "Inspection", IsActive: true}
	require.NoError(t, db.Create(&workType).Error)

	farmWorkRepo := repository.NewFarmWorkRepository(db)
	workMetaRepo := repository.NewWorkMetaRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationService := NewNotificationService(notificationRepo, userRepo)
	service := NewFarmWorkNotificationService(farmWorkRepo, workMetaRepo, teamRepo, notificationService)

	return bridgeTestEnv{
		db:               db,
		notificationRepo: notificationRepo,
		service:          service,
		owner:            owner,
		lead:             lead,
		workType:         workType,
	}
}

func TestWeatherBridge_CreatesWorkAndNotifiesOwner(t *testing.T) {
	env := setupBridgeEnv(t)

	land := models.Land{Name: "low field", Code: "LOW", CreatedBy: env.owner.ID, IsActive: true}
	require.NoError(t, env.db.Create(&land).Error)

	result, err := env.service.CreateWeatherFarmWork(&land, env.workType.ID, "Frost warning", "Frost expected overnight")
	require.NoError(t, err)
	require.True(t, result.Created)

	work := result.Work
	require.Equal(t, models.PriorityHigh, work.Priority)
	require.Equal(t, models.WorkStatePending, work.Status)
	require.Equal(t, models.ProvenanceWeatherAlert, work.CreatedFrom())
	require.NotNil(t, work.DueDate)

	weatherType := models.NotificationTypeWeather
	notifications, _, err := env.notificationRepo.List(repository.NotificationFilter{
		UserID: env.owner.ID,
		Type:   &weatherType,
	})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "Frost warning", notifications[0].Title)
	require.Equal(t, models.PriorityHigh, notifications[0].Priority)
}

func TestMaintenanceBridge_NotifiesTeamLeadOverOwner(t *testing.T) {
	env := setupBridgeEnv(t)

	leadID := env.lead.ID
	team := models.Team{Name: "north crew", LeadUserID: &leadID, IsActive: true}
	require.NoError(t, env.db.Create(&team).Error)

	teamID := team.ID
	land := models.Land{Name: "north field", Code: "NTH", CreatedBy: env.owner.ID, TeamID: &teamID, IsActive: true}
	require.NoError(t, env.db.Create(&land).Error)

	dueDate := utils.TruncateToDay(time.Now()).AddDate(0, 0, 7)
	result, err := env.service.CreateMaintenanceFarmWork(&land, env.workType.ID, dueDate, "Service the irrigation pump")
	require.NoError(t, err)
	require.True(t, result.Created)
	require.Equal(t, models.ProvenanceScheduledMaintenance, result.Work.CreatedFrom())
	require.NotNil(t, result.Work.DueDate)
	require.True(t, dueDate.Equal(*result.Work.DueDate))

	maintenanceType := models.NotificationTypeMaintenanceDue
	notifications, _, err := env.notificationRepo.List(repository.NotificationFilter{
		UserID: env.lead.ID,
		Type:   &maintenanceType,
	})
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	// The owner is not double-notified when a team lead exists.
	ownerNotifications, _, err := env.notificationRepo.List(repository.NotificationFilter{
		UserID: env.owner.ID,
		Type:   &maintenanceType,
	})
	require.NoError(t, err)
	require.Empty(t, ownerNotifications)
}

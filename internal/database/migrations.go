package database

import (
	"fmt"
	"log"

	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// Migrate runs auto-migration for every model and seeds the work status
// table when it is empty.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Land{},
		&models.WorkCategory{},
		&models.WorkType{},
		&models.WorkStatus{},
		&models.FarmWork{},
		&models.WorkAudit{},
		&models.WorkNote{},
		&models.WorkCompletion{},
		&models.Notification{},
		&models.Photo{},
		&models.EndpointPermission{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedWorkStatuses(db); err != nil {
		return fmt.Errorf("failed to seed work statuses: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// seedWorkStatuses inserts the default status rows. The row named
// "created" must exist because FarmWork creation defaults WorkStatusID to
// it.
func seedWorkStatuses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.WorkStatus{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.WorkStatus{
		{Name: "created", SortOrder: 1, IsActive: true},
		{Name: "assigned", SortOrder: 2, IsActive: true},
		{Name: "in_progress", SortOrder: 3, IsActive: true},
		{Name: "completed", SortOrder: 4, IsActive: true},
		{Name: "canceled", SortOrder: 5, IsActive: true},
		{Name: "pending", SortOrder: 6, IsActive: true},
		{Name: "postponed", SortOrder: 7, IsActive: true},
	}
	return db.Create(&defaults).Error
}

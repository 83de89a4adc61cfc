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

type harvestTestEnv struct {
	db               *gorm.DB
	landRepo         repository.LandRepository
	notificationRepo repository.NotificationRepository
	farmWorkRepo     repository.FarmWorkRepository
	service          *HarvestService
	owner            models.User
	workType         models.WorkType
}

func setupHarvestEnv(t *testing.T, now time.Time) harvestTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	owner := models.User{Email: "owner@farm.test", PasswordHash: "x", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&owner).Error)

	workType := models.WorkType{Name: "Harvesting", IsActive: true}
	require.NoError(t, db.Create(&workType).Error)

	landRepo := repository.NewLandRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	farmWorkRepo := repository.NewFarmWorkRepository(db)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	workMetaRepo := repository.NewWorkMetaRepository(db)

	notificationService := NewNotificationService(notificationRepo, userRepo)
	bridge := NewFarmWorkNotificationService(farmWorkRepo, workMetaRepo, teamRepo, notificationService)
	service := NewHarvestService(landRepo, notificationRepo, notificationService, bridge, nil)
	service.now = func() time.Time { return now }

	return harvestTestEnv{
		db:               db,
		landRepo:         landRepo,
		notificationRepo: notificationRepo,
		farmWorkRepo:     farmWorkRepo,
		service:          service,
		owner:            owner,
		workType:         workType,
	}
}

func (env *harvestTestEnv) createLand(t *testing.T, name string, previousHarvest time.Time, cycleDays int) models.Land {
	t.Helper()
	land := models.Land{
		Name:                name,
		Code:                name,
		PlantType:           "tea",
		HarvestCycleDays:    cycleDays,
		PreviousHarvestDate: &previousHarvest,
		CreatedBy:           env.owner.ID,
		IsActive:            true,
	}
	require.NoError(t, env.db.Create(&land).Error)
	return land
}

func TestHarvestScan_PersistsNextHarvestDateIdempotently(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 30, 0, 0, time.UTC)
	env := setupHarvestEnv(t, now)

	// Next harvest lands 10 days out, well past the notice window.
	prev := utils.TruncateToDay(now).AddDate(0, 0, -20)
	land := env.createLand(t, "north-field", prev, 30)

	result, err := env.service.CheckHarvestNotifications()
	require.NoError(t, err)
	require.Equal(t, 1, result.LandsChecked)
	require.Zero(t, result.NotificationsCreated)

	reloaded, err := env.landRepo.FindByID(land.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.NextHarvestDate)
	want := utils.TruncateToDay(prev.AddDate(0, 0, 30))
	require.True(t, want.Equal(utils.TruncateToDay(*reloaded.NextHarvestDate)))

	// A second run recomputes nothing and creates nothing.
	result, err = env.service.CheckHarvestNotifications()
	require.NoError(t, err)
	require.Zero(t, result.NotificationsCreated)
	require.Zero(t, result.NotificationsUpdated)

	again, err := env.landRepo.FindByID(land.ID)
	require.NoError(t, err)
	require.True(t, want.Equal(utils.TruncateToDay(*again.NextHarvestDate)))
}

func TestHarvestScan_ThreeDayLeadCreatesNotificationAndWorkOnce(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 30, 0, 0, time.UTC)
	env := setupHarvestEnv(t, now)

	// previous + cycle = today + 3 days.
	prev := utils.TruncateToDay(now).AddDate(0, 0, -27)
	land := env.createLand(t, "east-field", prev, 30)
	harvestDate := utils.TruncateToDay(now).AddDate(0, 0, 3)

	result, err := env.service.CheckHarvestNotifications()
	require.NoError(t, err)
	require.Equal(t, 1, result.NotificationsCreated)
	require.Equal(t, 1, result.FarmWorksCreated)
	require.Empty(t, result.Errors)

	n, err := env.notificationRepo.FindActiveHarvest(land.ID, harvestDate)
	require.NoError(t, err)
	require.Equal(t, models.PriorityMedium, n.Priority)
	require.Equal(t, models.NotificationStatusPending, n.Status)
	require.Contains(t, n.Title, "Due Soon")
	require.Contains(t, n.Title, land.Name)

	work, err := env.farmWorkRepo.FindHarvestBridgedWork(land.ID, harvestDate)
	require.NoError(t, err)
	require.Equal(t, models.WorkStatePending, work.Status)
	require.Equal(t, models.PriorityMedium, work.Priority)
	require.Equal(t, models.ProvenanceHarvestNotification, work.CreatedFrom())
	require.Equal(t, env.workType.ID, work.WorkTypeID)

	// Re-running must not duplicate either side.
	result, err = env.service.CheckHarvestNotifications()
	require.NoError(t, err)
	require.Zero(t, result.NotificationsCreated)
	require.Zero(t, result.NotificationsUpdated)
	require.Zero(t, result.FarmWorksCreated)

	var notificationCount, workCount int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&notificationCount).Error)
	require.NoError(t, env.db.Model(&models.FarmWork{}).Count(&workCount).Error)
	require.EqualValues(t, 1, notificationCount)
	require.EqualValues(t, 1, workCount)
}

func TestHarvestScan_OverdueIsHighPriorityWithoutWork(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 30, 0, 0, time.UTC)
	env := setupHarvestEnv(t, now)

	// Harvest was due 5 days ago.
	prev := utils.TruncateToDay(now).AddDate(0, 0, -35)
	land := env.createLand(t, "south-field", prev, 30)
	harvestDate := utils.TruncateToDay(now).AddDate(0, 0, -5)

	result, err := env.service.CheckHarvestNotifications()
	require.NoError(t, err)
	require.Equal(t, 1, result.NotificationsCreated)
	require.Zero(t, result.FarmWorksCreated)

	n, err := env.notificationRepo.FindActiveHarvest(land.ID, harvestDate)
	require.NoError(t, err)
	require.Equal(t, models.PriorityHigh, n.Priority)
	require.Contains(t, n.Title, "Overdue")

	var workCount int64
	require.NoError(t, env.db.Model(&models.FarmWork{}).Count(&workCount).Error)
	require.Zero(t, workCount)
}

func TestHarvestScan_EscalatesExistingNotification(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 30, 0, 0, time.UTC)
	env := setupHarvestEnv(t, now)

	// Harvest is tomorrow; a medium notification from an earlier run exists.
	prev := utils.TruncateToDay(now).AddDate(0, 0, -29)
	land := env.createLand(t, "west-field", prev, 30)
	harvestDate := utils.TruncateToDay(now).AddDate(0, 0, 1)

	landID := land.ID
	existing := models.Notification{
		LandID:      &landID,
		UserID:      env.owner.ID,
		Type:        models.NotificationTypeHarvest,
		Title:       "Harvest Due Soon: west-field",
		Message:     "stale",
		Priority:    models.PriorityMedium,
		Status:      models.NotificationStatusPending,
		HarvestDate: &harvestDate,
	}
	require.NoError(t, env.db.Create(&existing).Error)

	result, err := env.service.CheckHarvestNotifications()
	require.NoError(t, err)
	require.Zero(t, result.NotificationsCreated)
	require.Equal(t, 1, result.NotificationsUpdated)
	require.Zero(t, result.FarmWorksCreated)

	n, err := env.notificationRepo.FindActiveHarvest(land.ID, harvestDate)
	require.NoError(t, err)
	require.Equal(t, existing.ID, n.ID)
	require.Equal(t, models.PriorityHigh, n.Priority)
	require.Contains(t, n.Title, "Tomorrow")
}

func TestHarvestScan_SkipsBeyondNoticeWindow(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 30, 0, 0, time.UTC)
	env := setupHarvestEnv(t, now)

	prev := utils.TruncateToDay(now).AddDate(0, 0, -26)
	env.createLand(t, "far-field", prev, 30) // due in 4 days

	result, err := env.service.CheckHarvestNotifications()
	require.NoError(t, err)
	require.Equal(t, 1, result.LandsChecked)
	require.Zero(t, result.NotificationsCreated)

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestHarvestTier(t *testing.T) {
	cases := []struct {
		days     int
		priority models.Priority
		label    string
	}{
		{-3, models.PriorityHigh, "Overdue"},
		{0, models.PriorityHigh, "Overdue"},
		{1, models.PriorityHigh, "Tomorrow"},
		{2, models.PriorityMedium, "Due Soon"},
		{3, models.PriorityMedium, "Due Soon"},
		{4, models.PriorityLow, "Upcoming"},
	}
	for _, tc := range cases {
		priority, label := harvestTier(tc.days)
		require.Equal(t, tc.priority, priority, "days=%d", tc.days)
		require.Equal(t, tc.label, label, "days=%d", tc.days)
	}
}

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

type farmWorkTestEnv struct {
	db               *gorm.DB
	farmWorkRepo     repository.FarmWorkRepository
	notificationRepo repository.NotificationRepository
	service          *FarmWorkService
	user             models.User
	workType         models.WorkType
}

func setupFarmWorkEnv(t *testing.T) farmWorkTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	user := models.User{Email: "worker@farm.test", PasswordHash: "x", Role: models.RoleContributor, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	workType := models.WorkType{Name: "Pruning", IsActive: true}
	require.NoError(t, db.Create(&workType).Error)

	farmWorkRepo := repository.NewFarmWorkRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	workMetaRepo := repository.NewWorkMetaRepository(db)
	userRepo := repository.NewUserRepository(db)
	syncService := NewSyncService(farmWorkRepo, notificationRepo)
	notificationService := NewNotificationService(notificationRepo, userRepo)
	service := NewFarmWorkService(farmWorkRepo, workMetaRepo, syncService, notificationService, nil)

	return farmWorkTestEnv{
		db:               db,
		farmWorkRepo:     farmWorkRepo,
		notificationRepo: notificationRepo,
		service:          service,
		user:             user,
		workType:         workType,
	}
}

func TestFarmWorkService_CreateDefaultsAndInitialAudit(t *testing.T) {
	env := setupFarmWorkEnv(t)

	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Prune the back rows",
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.PriorityMedium, work.Priority)
	require.Equal(t, models.WorkStateCreated, work.Status)
	require.Equal(t, "Pruning", work.WorkType.Name)

	audits, err := env.service.ListAudits(work.ID)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	require.Nil(t, audits[0].PreviousStatus)
	require.Equal(t, models.WorkStateCreated, audits[0].CurrentStatus)
}

func TestFarmWorkService_CreateValidation(t *testing.T) {
	env := setupFarmWorkEnv(t)

	_, err := env.service.Create(CreateFarmWorkInput{WorkTypeID: env.workType.ID, CreatorUserID: env.user.ID})
	require.ErrorIs(t, err, ErrWorkTitleRequired)

	_, err = env.service.Create(CreateFarmWorkInput{Title: "x", CreatorUserID: env.user.ID})
	require.ErrorIs(t, err, ErrWorkTypeRequired)

	_, err = env.service.Create(CreateFarmWorkInput{Title: "x", WorkTypeID: env.workType.ID})
	require.ErrorIs(t, err, ErrWorkCreatorRequired)
}

func TestFarmWorkService_StatusTransitionsStampDatesOnceAndAudit(t *testing.T) {
	env := setupFarmWorkEnv(t)

	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Fix irrigation",
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
	})
	require.NoError(t, err)

	transition := func(state models.WorkState) *models.FarmWork {
		updated, err := env.service.Update(work.ID, UpdateFarmWorkInput{
			Status:    &state,
			ChangedBy: env.user.ID,
		})
		require.NoError(t, err)
		return updated
	}

	assigned := transition(models.WorkStateAssigned)
	require.NotNil(t, assigned.AssignedDate)
	firstAssigned := *assigned.AssignedDate

	started := transition(models.WorkStateInProgress)
	require.NotNil(t, started.StartedDate)
	require.Nil(t, started.CompletedDate)

	// Re-entering a state keeps the first timestamp.
	reassigned := transition(models.WorkStateAssigned)
	require.NotNil(t, reassigned.AssignedDate)
	require.True(t, firstAssigned.Equal(*reassigned.AssignedDate))

	completed := transition(models.WorkStateCompleted)
	require.NotNil(t, completed.CompletedDate)

	audits, err := env.service.ListAudits(work.ID)
	require.NoError(t, err)
	// 1 creation row + 4 transitions.
	require.Len(t, audits, 5)
	require.Equal(t, models.WorkStateCompleted, audits[4].CurrentStatus)
	require.NotNil(t, audits[4].PreviousStatus)
	require.Equal(t, models.WorkStateAssigned, *audits[4].PreviousStatus)
	require.Contains(t, audits[1].Note, "Status changed from created to assigned")
}

func TestFarmWorkService_NoAuditWithoutStatusChange(t *testing.T) {
	env := setupFarmWorkEnv(t)

	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Weed control",
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
	})
	require.NoError(t, err)

	newTitle := "Weed control (north)"
	_, err = env.service.Update(work.ID, UpdateFarmWorkInput{
		Title:     &newTitle,
		ChangedBy: env.user.ID,
	})
	require.NoError(t, err)

	audits, err := env.service.ListAudits(work.ID)
	require.NoError(t, err)
	require.Len(t, audits, 1)
}

func TestFarmWorkService_SyncDrivesHarvestNotification(t *testing.T) {
	env := setupFarmWorkEnv(t)

	land := models.Land{Name: "orchard", Code: "ORC", CreatedBy: env.user.ID, IsActive: true}
	require.NoError(t, env.db.Create(&land).Error)

	harvestDate := utils.TruncateToDay(time.Now()).AddDate(0, 0, 3)
	landID := land.ID
	notification := models.Notification{
		LandID:      &landID,
		UserID:      env.user.ID,
		Type:        models.NotificationTypeHarvest,
		Title:       "Harvest Due Soon: orchard",
		Priority:    models.PriorityMedium,
		Status:      models.NotificationStatusPending,
		HarvestDate: &harvestDate,
	}
	require.NoError(t, env.db.Create(&notification).Error)

	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Harvest orchard",
		LandID:        &landID,
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
		DueDate:       &harvestDate,
		Metadata: map[string]any{
			models.MetadataKeyCreatedFrom: models.ProvenanceHarvestNotification,
		},
	})
	require.NoError(t, err)

	inProgress := models.WorkStateInProgress
	_, err = env.service.Update(work.ID, UpdateFarmWorkInput{Status: &inProgress, ChangedBy: env.user.ID})
	require.NoError(t, err)

	n, err := env.notificationRepo.FindByID(notification.ID)
	require.NoError(t, err)
	require.Equal(t, models.NotificationStatusInProgress, n.Status)

	completed := models.WorkStateCompleted
	_, err = env.service.Update(work.ID, UpdateFarmWorkInput{Status: &completed, ChangedBy: env.user.ID})
	require.NoError(t, err)

	n, err = env.notificationRepo.FindByID(notification.ID)
	require.NoError(t, err)
	require.Equal(t, models.NotificationStatusCompleted, n.Status)
	require.False(t, n.IsDismissed)
}

func TestFarmWorkService_CancelDismissesHarvestNotification(t *testing.T) {
	env := setupFarmWorkEnv(t)

	land := models.Land{Name: "vineyard", Code: "VIN", CreatedBy: env.user.ID, IsActive: true}
	require.NoError(t, env.db.Create(&land).Error)

	harvestDate := utils.TruncateToDay(time.Now()).AddDate(0, 0, 2)
	landID := land.ID
	notification := models.Notification{
		LandID:      &landID,
		UserID:      env.user.ID,
		Type:        models.NotificationTypeHarvest,
		Title:       "Harvest Due Soon: vineyard",
		Priority:    models.PriorityMedium,
		Status:      models.NotificationStatusPending,
		HarvestDate: &harvestDate,
	}
	require.NoError(t, env.db.Create(&notification).Error)

	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Harvest vineyard",
		LandID:        &landID,
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
		DueDate:       &harvestDate,
		Metadata: map[string]any{
			models.MetadataKeyCreatedFrom: models.ProvenanceHarvestNotification,
		},
	})
	require.NoError(t, err)

	canceled := models.WorkStateCanceled
	_, err = env.service.Update(work.ID, UpdateFarmWorkInput{Status: &canceled, ChangedBy: env.user.ID})
	require.NoError(t, err)

	n, err := env.notificationRepo.FindByID(notification.ID)
	require.NoError(t, err)
	require.True(t, n.IsDismissed)
	require.Equal(t, models.NotificationStatusDismissed, n.Status)
}

func TestFarmWorkService_SyncIgnoresUnbridgedWork(t *testing.T) {
	env := setupFarmWorkEnv(t)

	land := models.Land{Name: "paddock", Code: "PAD", CreatedBy: env.user.ID, IsActive: true}
	require.NoError(t, env.db.Create(&land).Error)

	harvestDate := utils.TruncateToDay(time.Now()).AddDate(0, 0, 2)
	landID := land.ID
	notification := models.Notification{
		LandID:      &landID,
		UserID:      env.user.ID,
		Type:        models.NotificationTypeHarvest,
		Title:       "Harvest Due Soon: paddock",
		Priority:    models.PriorityMedium,
		Status:      models.NotificationStatusPending,
		HarvestDate: &harvestDate,
	}
	require.NoError(t, env.db.Create(&notification).Error)

	// Same land and due date, but no provenance tag.
	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Mow paddock",
		LandID:        &landID,
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
		DueDate:       &harvestDate,
	})
	require.NoError(t, err)

	completed := models.WorkStateCompleted
	_, err = env.service.Update(work.ID, UpdateFarmWorkInput{Status: &completed, ChangedBy: env.user.ID})
	require.NoError(t, err)

	n, err := env.notificationRepo.FindByID(notification.ID)
	require.NoError(t, err)
	require.Equal(t, models.NotificationStatusPending, n.Status)
}

func TestFarmWorkService_NoteFromOthersNotifiesCreator(t *testing.T) {
	env := setupFarmWorkEnv(t)

	other := models.User{Email: "other@farm.test", PasswordHash: "x", Role: models.RoleContributor, IsActive: true}
	require.NoError(t, env.db.Create(&other).Error)

	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Check fences",
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
	})
	require.NoError(t, err)

	// The creator's own note stays silent.
	_, err = env.service.AddNote(work.ID, env.user.ID, "starting on the east side")
	require.NoError(t, err)

	commentType := models.NotificationTypeComment
	notifications, total, err := env.notificationRepo.List(repository.NotificationFilter{
		UserID: env.user.ID,
		Type:   &commentType,
	})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, notifications)

	_, err = env.service.AddNote(work.ID, other.ID, "gate hinge is broken")
	require.NoError(t, err)

	notifications, total, err = env.notificationRepo.List(repository.NotificationFilter{
		UserID: env.user.ID,
		Type:   &commentType,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Message, "Check fences")
}

func TestFarmWorkService_CompleteRejectsSecondReport(t *testing.T) {
	env := setupFarmWorkEnv(t)

	work, err := env.service.Create(CreateFarmWorkInput{
		Title:         "Harvest orchard",
		WorkTypeID:    env.workType.ID,
		CreatorUserID: env.user.ID,
	})
	require.NoError(t, err)

	_, err = env.service.Complete(work.ID, env.user.ID, "done", 4.5)
	require.NoError(t, err)

	_, err = env.service.Complete(work.ID, env.user.ID, "done again", 1)
	require.ErrorIs(t, err, ErrWorkAlreadyComplete)
}

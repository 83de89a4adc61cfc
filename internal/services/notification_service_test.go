package services

import (
	"testing"
	"time"

	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type notificationTestEnv struct {
	db      *gorm.DB
	service *NotificationService
	repo    repository.NotificationRepository
}

func setupNotificationEnv(t *testing.T) notificationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	return notificationTestEnv{
		db:      db,
		service: NewNotificationService(repo, userRepo),
		repo:    repo,
	}
}

func (env *notificationTestEnv) createUser(t *testing.T, email string, active bool) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "x", Role: models.RoleUser, IsActive: active}
	require.NoError(t, env.db.Create(&user).Error)
	return user
}

func TestNotificationService_SystemFanOutSkipsInactiveUsers(t *testing.T) {
	env := setupNotificationEnv(t)

	active1 := env.createUser(t, "a@farm.test", true)
	active2 := env.createUser(t, "b@farm.test", true)
	env.createUser(t, "c@farm.test", false)

	created, err := env.service.CreateSystemNotification("Maintenance window", "The console goes down at 22:00.")
	require.NoError(t, err)
	require.Equal(t, 2, created)

	for _, user := range []models.User{active1, active2} {
		notifications, total, err := env.service.List(repository.NotificationFilter{UserID: user.ID})
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		require.Equal(t, models.NotificationTypeSystem, notifications[0].Type)
	}
}

func TestNotificationService_BulkRequiresRecipients(t *testing.T) {
	env := setupNotificationEnv(t)

	_, err := env.service.CreateBulkNotification(nil, "t", "m", models.PriorityLow)
	require.ErrorIs(t, err, ErrNoRecipients)
}

func TestNotificationService_OwnershipGuards(t *testing.T) {
	env := setupNotificationEnv(t)

	owner := env.createUser(t, "owner@farm.test", true)
	other := env.createUser(t, "other@farm.test", true)

	n, err := env.service.CreateCommentNotification(owner.ID, nil, "New comment on your work")
	require.NoError(t, err)

	require.ErrorIs(t, env.service.MarkRead(n.ID, other.ID), ErrNotNotificationOwner)
	require.ErrorIs(t, env.service.Dismiss(n.ID, other.ID), ErrNotNotificationOwner)
	require.ErrorIs(t, env.service.Delete(n.ID, other.ID), ErrNotNotificationOwner)
	require.ErrorIs(t, env.service.MarkRead(99999, owner.ID), ErrNotificationNotFound)

	require.NoError(t, env.service.MarkRead(n.ID, owner.ID))
	reloaded, err := env.repo.FindByID(n.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsRead)
	require.NotNil(t, reloaded.ReadAt)
}

func TestNotificationService_Stats(t *testing.T) {
	env := setupNotificationEnv(t)

	user := env.createUser(t, "stats@farm.test", true)
	other := env.createUser(t, "noise@farm.test", true)

	first, err := env.service.CreateCommentNotification(user.ID, nil, "one")
	require.NoError(t, err)
	_, err = env.service.CreatePhotoNotification(user.ID, nil, "two")
	require.NoError(t, err)
	_, err = env.service.CreateCommentNotification(other.ID, nil, "someone else's")
	require.NoError(t, err)

	require.NoError(t, env.service.MarkRead(first.ID, user.ID))

	stats, err := env.service.Stats(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Total)
	require.EqualValues(t, 1, stats.Unread)
	require.EqualValues(t, 1, stats.ByType[models.NotificationTypeComment])
	require.EqualValues(t, 1, stats.ByType[models.NotificationTypePhoto])
}

func TestNotificationService_CleanupRemovesOldDismissedOnly(t *testing.T) {
	env := setupNotificationEnv(t)

	user := env.createUser(t, "cleanup@farm.test", true)

	old, err := env.service.CreateCommentNotification(user.ID, nil, "old and dismissed")
	require.NoError(t, err)
	require.NoError(t, env.service.Dismiss(old.ID, user.ID))

	fresh, err := env.service.CreateCommentNotification(user.ID, nil, "recently dismissed")
	require.NoError(t, err)
	require.NoError(t, env.service.Dismiss(fresh.ID, user.ID))

	kept, err := env.service.CreateCommentNotification(user.ID, nil, "still active")
	require.NoError(t, err)

	// Age the first row past the cutoff.
	aged := time.Now().AddDate(0, 0, -45)
	require.NoError(t, env.db.Exec(
		"UPDATE notifications SET updated_at = ? WHERE id = ?", aged, old.ID).Error)

	deleted, err := env.service.Cleanup(30)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = env.repo.FindByID(old.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = env.repo.FindByID(fresh.ID)
	require.NoError(t, err)
	_, err = env.repo.FindByID(kept.ID)
	require.NoError(t, err)
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("notification belongs to another user")
	ErrNoRecipients         = errors.New("at least one recipient is required")
)

// NotificationService handles notification business logic. The category
// constructors differ only in type, default priority and message
// templates.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// CreateHarvestNotificationInput carries the harvest-cycle context the
// scan attaches to each notification.
type CreateHarvestNotificationInput struct {
	UserID      uint64
	LandID      uint64
	Priority    models.Priority
	Title       string
	Message     string
	HarvestDate time.Time
	Metadata    map[string]any
}

// CreateHarvestNotification inserts a harvest notification keyed by
// (land, harvest date).
func (s *NotificationService) CreateHarvestNotification(input CreateHarvestNotificationInput) (*models.Notification, error) {
	landID := input.LandID
	harvestDate := input.HarvestDate
	n := &models.Notification{
		LandID:      &landID,
		UserID:      input.UserID,
		Type:        models.NotificationTypeHarvest,
		Title:       input.Title,
		Message:     input.Message,
		Priority:    input.Priority,
		Status:      models.NotificationStatusPending,
		HarvestDate: &harvestDate,
		Metadata:    models.NewMetadata(input.Metadata),
	}
	if err := s.notificationRepo.Create(n); err != nil {
		return nil, fmt.Errorf("failed to create harvest notification: %w", err)
	}
	return n, nil
}

// CreateMaintenanceNotification notifies a user about due maintenance.
func (s *NotificationService) CreateMaintenanceNotification(userID uint64, landID *uint64, title, message string) (*models.Notification, error) {
	return s.create(userID, landID, models.NotificationTypeMaintenanceDue, title, message, models.PriorityMedium)
}

// CreateCommentNotification notifies a user about a new comment on their work.
func (s *NotificationService) CreateCommentNotification(userID uint64, landID *uint64, message string) (*models.Notification, error) {
	return s.create(userID, landID, models.NotificationTypeComment, "New comment", message, models.PriorityLow)
}

// CreatePhotoNotification notifies a user about a newly uploaded photo.
func (s *NotificationService) CreatePhotoNotification(userID uint64, landID *uint64, message string) (*models.Notification, error) {
	return s.create(userID, landID, models.NotificationTypePhoto, "New photo", message, models.PriorityLow)
}

// CreateWeatherNotification notifies a user about a weather alert.
func (s *NotificationService) CreateWeatherNotification(userID uint64, landID *uint64, title, message string) (*models.Notification, error) {
	return s.create(userID, landID, models.NotificationTypeWeather, title, message, models.PriorityHigh)
}

// CreateSystemNotification fans out one row per active user. The fan-out
// is not transactional: a failure partway through leaves the rows already
// written in place.
func (s *NotificationService) CreateSystemNotification(title, message string) (int, error) {
	userIDs, err := s.userRepo.ListActiveIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to list recipients: %w", err)
	}
	return s.fanOut(userIDs, nil, models.NotificationTypeSystem, title, message, models.PriorityMedium)
}

// CreateBulkNotification fans out one row per given user, with the same
// partial-failure behavior as system notifications.
func (s *NotificationService) CreateBulkNotification(userIDs []uint64, title, message string, priority models.Priority) (int, error) {
	if len(userIDs) == 0 {
		return 0, ErrNoRecipients
	}
	return s.fanOut(userIDs, nil, models.NotificationTypeSystem, title, message, priority)
}

// List returns a user's notifications
func (s *NotificationService) List(filter repository.NotificationFilter) ([]models.Notification, int64, error) {
	return s.notificationRepo.List(filter)
}

// MarkRead marks a notification read after verifying ownership
func (s *NotificationService) MarkRead(id, userID uint64) error {
	if err := s.ensureOwner(id, userID); err != nil {
		return err
	}
	return s.notificationRepo.MarkRead(id)
}

// Dismiss dismisses a notification after verifying ownership
func (s *NotificationService) Dismiss(id, userID uint64) error {
	if err := s.ensureOwner(id, userID); err != nil {
		return err
	}
	return s.notificationRepo.Dismiss(id)
}

// Delete removes a notification after verifying ownership
func (s *NotificationService) Delete(id, userID uint64) error {
	if err := s.ensureOwner(id, userID); err != nil {
		return err
	}
	return s.notificationRepo.Delete(id)
}

// Stats aggregates notification counts for a user
func (s *NotificationService) Stats(userID uint64) (*repository.NotificationStats, error) {
	return s.notificationRepo.Stats(userID)
}

// Cleanup removes dismissed notifications older than the given number of days
func (s *NotificationService) Cleanup(olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	return s.notificationRepo.DeleteDismissedBefore(cutoff)
}

func (s *NotificationService) create(userID uint64, landID *uint64, notifType, title, message string, priority models.Priority) (*models.Notification, error) {
	n := &models.Notification{
		LandID:   landID,
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Priority: priority,
		Status:   models.NotificationStatusPending,
	}
	if err := s.notificationRepo.Create(n); err != nil {
		return nil, fmt.Errorf("failed to create %s notification: %w", notifType, err)
	}
	return n, nil
}

func (s *NotificationService) fanOut(userIDs []uint64, landID *uint64, notifType, title, message string, priority models.Priority) (int, error) {
	created := 0
	for _, userID := range userIDs {
		if _, err := s.create(userID, landID, notifType, title, message, priority); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *NotificationService) ensureOwner(id, userID uint64) error {
	n, err := s.notificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}
	if n.UserID != userID {
		return ErrNotNotificationOwner
	}
	return nil
}

package repository

import (
	"time"

	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a new notification
func (r *GormNotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(id uint64) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// List retrieves notifications with filtering and pagination, newest first
func (r *GormNotificationRepository) List(filter NotificationFilter) ([]models.Notification, int64, error) {
	var notifications []models.Notification

	query := r.db.Model(&models.Notification{}).Where("user_id = ?", filter.UserID)
	if filter.LandID != nil {
		query = query.Where("land_id = ?", *filter.LandID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Land").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// Update updates a notification
func (r *GormNotificationRepository) Update(n *models.Notification) error {
	return r.db.Save(n).Error
}

// Delete removes a notification
func (r *GormNotificationRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

// FindActiveHarvest finds the non-dismissed harvest notification keyed by
// (land, harvest date). The harvest_date column is the dedup key, so this
// is an indexed lookup.
func (r *GormNotificationRepository) FindActiveHarvest(landID uint64, harvestDate time.Time) (*models.Notification, error) {
	var n models.Notification
	err := r.db.
		Where("land_id = ?", landID).
		Where("type = ?", models.NotificationTypeHarvest).
		Where("is_dismissed = ?", false).
		Where("harvest_date = ?", harvestDate).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead stamps is_read/read_at
func (r *GormNotificationRepository) MarkRead(id uint64) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// Dismiss flags the notification dismissed
func (r *GormNotificationRepository) Dismiss(id uint64) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_dismissed": true,
			"status":       models.NotificationStatusDismissed,
		}).Error
}

// SetStatus writes the lifecycle status
func (r *GormNotificationRepository) SetStatus(id uint64, status models.NotificationStatus) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Update("status", status).Error
}

// Stats aggregates notification counts for a user
func (r *GormNotificationRepository) Stats(userID uint64) (*NotificationStats, error) {
	stats := &NotificationStats{ByType: make(map[string]int64)}

	base := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if err := base.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&stats.Unread).Error; err != nil {
		return nil, err
	}

	type typeCount struct {
		Type  string
		Count int64
	}
	var counts []typeCount
	err := r.db.Model(&models.Notification{}).
		Select("type, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, tc := range counts {
		stats.ByType[tc.Type] = tc.Count
	}

	return stats, nil
}

// DeleteDismissedBefore removes dismissed rows older than the cutoff
func (r *GormNotificationRepository) DeleteDismissedBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("is_dismissed = ?", true).
		Where("updated_at < ?", cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

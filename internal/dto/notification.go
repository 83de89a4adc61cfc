package dto

import (
	"time"

	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/datatypes"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID          uint64                    `json:"id"`
	LandID      *uint64                   `json:"land_id"`
	LandName    string                    `json:"land_name,omitempty"`
	Type        string                    `json:"type"`
	Title       string                    `json:"title"`
	Message     string                    `json:"message"`
	Priority    models.Priority           `json:"priority"`
	Status      models.NotificationStatus `json:"status"`
	HarvestDate *time.Time                `json:"harvest_date,omitempty"`
	Metadata    datatypes.JSON            `json:"metadata,omitempty"`
	IsRead      bool                      `json:"is_read"`
	IsDismissed bool                      `json:"is_dismissed"`
	ReadAt      *time.Time                `json:"read_at"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:          n.ID,
		LandID:      n.LandID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Priority:    n.Priority,
		Status:      n.Status,
		HarvestDate: n.HarvestDate,
		Metadata:    n.Metadata,
		IsRead:      n.IsRead,
		IsDismissed: n.IsDismissed,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
	if n.Land != nil && n.Land.ID != 0 {
		dto.LandName = n.Land.Name
	}
	return dto
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = ToNotificationDTO(n)
	}
	return dtos
}

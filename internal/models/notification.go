package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types created by the service's category constructors.
const (
	NotificationTypeHarvest        = "harvest"
	NotificationTypeMaintenanceDue = "maintenance_due"
	NotificationTypeComment        = "comment"
	NotificationTypePhoto          = "photo"
	NotificationTypeWeather        = "weather_alert"
	NotificationTypeSystem         = "system"
)

type Notification struct {
	ID      uint64  `gorm:"primarykey" json:"id"`
	LandID  *uint64 `gorm:"index" json:"land_id"`
	UserID  uint64  `gorm:"not null;index" json:"user_id"`
	Type    string  `gorm:"type:varchar(64);not null" json:"type"`
	Title   string  `gorm:"type:varchar(255);not null" json:"title"`
	Message string  `gorm:"type:text" json:"message"`

	Priority Priority           `gorm:"type:varchar(20);not null;default:'low'" json:"priority"`
	Status   NotificationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// HarvestDate is the dedup key for harvest notifications: one active
	// notification per (land, harvest cycle date).
	HarvestDate *time.Time     `gorm:"index:idx_notifications_land_harvest" json:"harvest_date"`
	Metadata    datatypes.JSON `json:"metadata"`

	IsRead      bool       `gorm:"not null;default:false;index" json:"is_read"`
	IsDismissed bool       `gorm:"not null;default:false;index" json:"is_dismissed"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Land *Land `gorm:"foreignKey:LandID" json:"land,omitempty"`
	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Metadata keys used to tag farm work provenance.
const (
	MetadataKeyCreatedFrom         = "created_from"
	ProvenanceHarvestNotification  = "harvest_notification"
	ProvenanceWeatherAlert         = "weather_alert"
	ProvenanceScheduledMaintenance = "scheduled_maintenance"
)

type FarmWork struct {
	ID          uint64  `gorm:"primarykey" json:"id"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	LandID      *uint64 `gorm:"index" json:"land_id"`
	WorkTypeID  uint64  `gorm:"not null" json:"work_type_id"`

	Priority     Priority  `gorm:"type:varchar(20);not null;default:'medium'" json:"priority_level"`
	Status       WorkState `gorm:"type:varchar(20);not null;default:'created';index" json:"status"`
	WorkStatusID uint64    `gorm:"not null;default:1" json:"work_status_id"`

	CreatorUserID  uint64  `gorm:"not null" json:"creator_user_id"`
	AssignerUserID *uint64 `json:"assigner_user_id"`
	TeamID         *uint64 `json:"team_id"`

	AssignedDate  *time.Time `json:"assigned_date"`
	DueDate       *time.Time `gorm:"index" json:"due_date"`
	StartedDate   *time.Time `json:"started_date"`
	CompletedDate *time.Time `json:"completed_date"`

	Metadata datatypes.JSON `json:"metadata"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Land       *Land       `gorm:"foreignKey:LandID" json:"land,omitempty"`
	WorkType   WorkType    `gorm:"foreignKey:WorkTypeID" json:"work_type,omitempty"`
	WorkStatus WorkStatus  `gorm:"foreignKey:WorkStatusID" json:"work_status,omitempty"`
	Creator    User        `gorm:"foreignKey:CreatorUserID" json:"creator,omitempty"`
	Assigner   *User       `gorm:"foreignKey:AssignerUserID" json:"assigner,omitempty"`
	Team       *Team       `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Audits     []WorkAudit `gorm:"foreignKey:WorkID" json:"audits,omitempty"`
	Notes      []WorkNote  `gorm:"foreignKey:WorkID" json:"notes,omitempty"`
}

// CreatedFrom returns the provenance tag stored in metadata, if any.
func (w *FarmWork) CreatedFrom() string {
	if len(w.Metadata) == 0 {
		return ""
	}
	meta := map[string]any{}
	if err := jsonUnmarshal(w.Metadata, &meta); err != nil {
		return ""
	}
	if v, ok := meta[MetadataKeyCreatedFrom].(string); ok {
		return v
	}
	return ""
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type WorkNote struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	WorkID    uint64         `gorm:"not null;index" json:"work_id"`
	AuthorID  uint64         `gorm:"not null" json:"author_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Work   FarmWork `gorm:"foreignKey:WorkID" json:"-"`
	Author User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// WorkCompletion records the outcome of a completed farm work.
type WorkCompletion struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	WorkID      uint64    `gorm:"not null;uniqueIndex" json:"work_id"`
	CompletedBy uint64    `gorm:"not null" json:"completed_by"`
	Summary     string    `gorm:"type:text" json:"summary"`
	HoursSpent  float64   `json:"hours_spent"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Work FarmWork `gorm:"foreignKey:WorkID" json:"-"`
	User User     `gorm:"foreignKey:CompletedBy" json:"user,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkCategory groups work types (e.g. "Harvesting", "Maintenance").
type WorkCategory struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Types []WorkType `gorm:"foreignKey:CategoryID" json:"types,omitempty"`
}

type WorkType struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(100);not null" json:"name"`
	Icon       string         `gorm:"type:varchar(50)" json:"icon"`
	CategoryID *uint64        `json:"category_id"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Category *WorkCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// WorkStatus is the configurable status table referenced by
// FarmWork.WorkStatusID. The lifecycle itself is driven by the WorkState
// enum; rows here carry display names and ordering for the console.
type WorkStatus struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(50);not null" json:"name"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

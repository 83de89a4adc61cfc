package models

import (
	"time"
)

// Land is never hard-deleted; deactivation flips IsActive instead.
type Land struct {
	ID                  uint64     `gorm:"primarykey" json:"id"`
	Name                string     `gorm:"type:varchar(255);not null" json:"name"`
	Code                string     `gorm:"type:varchar(50);uniqueIndex" json:"code"`
	AreaHectares        float64    `json:"area_hectares"`
	PlantType           string     `gorm:"type:varchar(100)" json:"plant_type"`
	PlantingDate        *time.Time `json:"planting_date"`
	HarvestCycleDays    int        `json:"harvest_cycle_days"`
	PreviousHarvestDate *time.Time `json:"previous_harvest_date"`
	NextHarvestDate     *time.Time `json:"next_harvest_date"`
	CreatedBy           uint64     `gorm:"not null" json:"created_by"`
	TeamID              *uint64    `json:"team_id"`
	IsActive            bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Relations
	Creator User  `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Team    *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

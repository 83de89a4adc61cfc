package models

import "time"

// WorkAudit is the append-only status transition log for farm works.
// Rows are never updated or deleted.
type WorkAudit struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	WorkID         uint64     `gorm:"not null;index" json:"work_id"`
	ChangedBy      uint64     `gorm:"not null" json:"changed_by"`
	PreviousStatus *WorkState `gorm:"type:varchar(20)" json:"previous_status"`
	CurrentStatus  WorkState  `gorm:"type:varchar(20);not null" json:"current_status"`
	Note           string     `gorm:"type:text" json:"note"`
	CreatedAt      time.Time  `json:"created_at"`

	// Relations
	Work FarmWork `gorm:"foreignKey:WorkID" json:"-"`
	User User     `gorm:"foreignKey:ChangedBy" json:"user,omitempty"`
}

func (WorkAudit) TableName() string {
	return "work_status_audits"
}

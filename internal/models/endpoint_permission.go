package models

import "time"

// EndpointPermission overrides the compiled-in minimum role for an
// endpoint key. Admins edit these rows through /api/permissions; the role
// middleware falls back to its default when no row exists.
type EndpointPermission struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Endpoint  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"endpoint"`
	MinRole   Role      `gorm:"type:varchar(20);not null" json:"min_role"`
	UpdatedBy uint64    `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

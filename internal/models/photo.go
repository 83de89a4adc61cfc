package models

import "time"

// Photo is an uploaded image attached to a land or a farm work. EXIF
// fields are filled opportunistically at upload time and stay null when
// the image carries no usable EXIF block.
type Photo struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	LandID       *uint64 `gorm:"index" json:"land_id"`
	WorkID       *uint64 `gorm:"index" json:"work_id"`
	UploaderID   uint64  `gorm:"not null" json:"uploader_id"`
	FilePath     string  `gorm:"type:varchar(512);not null" json:"-"`
	OriginalName string  `gorm:"type:varchar(255)" json:"original_name"`
	ContentType  string  `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes    int64   `json:"size_bytes"`

	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	TakenAt   *time.Time `json:"taken_at"`
	Camera    *string    `gorm:"type:varchar(255)" json:"camera"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Land     *Land     `gorm:"foreignKey:LandID" json:"land,omitempty"`
	Work     *FarmWork `gorm:"foreignKey:WorkID" json:"-"`
	Uploader User      `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}

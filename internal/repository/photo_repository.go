package repository

import (
	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// GormPhotoRepository is a GORM implementation of PhotoRepository
type GormPhotoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &GormPhotoRepository{db: db}
}

func (r *GormPhotoRepository) Create(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

func (r *GormPhotoRepository) FindByID(id uint64) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *GormPhotoRepository) ListByLand(landID uint64) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.
		Where("land_id = ?", landID).
		Order("created_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *GormPhotoRepository) ListByWork(workID uint64) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.
		Where("work_id = ?", workID).
		Order("created_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *GormPhotoRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Photo{}, id).Error
}

package repository

import (
	"time"

	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// GormLandRepository is a GORM implementation of LandRepository
type GormLandRepository struct {
	db *gorm.DB
}

// NewLandRepository creates a new LandRepository
func NewLandRepository(db *gorm.DB) LandRepository {
	return &GormLandRepository{db: db}
}

// Create creates a new land
func (r *GormLandRepository) Create(land *models.Land) error {
	return r.db.Create(land).Error
}

// FindByID finds a land by ID with optional preloading
func (r *GormLandRepository) FindByID(id uint64, preload ...string) (*models.Land, error) {
	var land models.Land
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&land, id).Error; err != nil {
		return nil, err
	}
	return &land, nil
}

// List retrieves lands with filtering and pagination
func (r *GormLandRepository) List(filter LandFilter) ([]models.Land, int64, error) {
	var lands []models.Land

	query := r.db.Model(&models.Land{})
	if filter.ActiveOnly {
		query = query.Scopes(database.ActiveOnly)
	}
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("lands.name ASC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Team").Find(&lands).Error; err != nil {
		return nil, 0, err
	}

	return lands, total, nil
}

// Update updates a land
func (r *GormLandRepository) Update(land *models.Land) error {
	return r.db.Save(land).Error
}

// Deactivate clears the active flag; lands are never deleted
func (r *GormLandRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.Land{}).Where("id = ?", id).
		Update("is_active", false).Error
}

// ListHarvestable returns active lands eligible for the harvest scan
func (r *GormLandRepository) ListHarvestable() ([]models.Land, error) {
	var lands []models.Land
	err := r.db.
		Where("is_active = ?", true).
		Where("previous_harvest_date IS NOT NULL").
		Where("harvest_cycle_days > 0").
		Find(&lands).Error
	if err != nil {
		return nil, err
	}
	return lands, nil
}

// SetNextHarvestDate persists a computed next harvest date
func (r *GormLandRepository) SetNextHarvestDate(id uint64, date time.Time) error {
	return r.db.Model(&models.Land{}).Where("id = ?", id).
		Update("next_harvest_date", date).Error
}

package repository

import (
	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPermissionRepository is a GORM implementation of PermissionRepository
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new PermissionRepository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &GormPermissionRepository{db: db}
}

func (r *GormPermissionRepository) FindByEndpoint(endpoint string) (*models.EndpointPermission, error) {
	var p models.EndpointPermission
	if err := r.db.Where("endpoint = ?", endpoint).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts or replaces the override row for an endpoint
func (r *GormPermissionRepository) Upsert(p *models.EndpointPermission) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"min_role", "updated_by", "updated_at"}),
		}).
		Create(p).Error
}

func (r *GormPermissionRepository) List() ([]models.EndpointPermission, error) {
	var perms []models.EndpointPermission
	if err := r.db.Order("endpoint ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *GormPermissionRepository) Delete(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).
		Delete(&models.EndpointPermission{}).Error
}

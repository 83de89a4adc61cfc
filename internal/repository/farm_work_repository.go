package repository

import (
	"strings"
	"time"

	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// workTriageOrder encodes the operational triage policy: most urgent
// priority first, soonest due date next with undated work sinking below
// dated work, newest creation last as the tie-break.
const workTriageOrder = "CASE farm_works.priority " +
	"WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END, " +
	"CASE WHEN farm_works.due_date IS NULL THEN 1 ELSE 0 END, farm_works.due_date ASC, " +
	"farm_works.created_at DESC"

// GormFarmWorkRepository is a GORM implementation of FarmWorkRepository
type GormFarmWorkRepository struct {
	db *gorm.DB
}

// NewFarmWorkRepository creates a new FarmWorkRepository
func NewFarmWorkRepository(db *gorm.DB) FarmWorkRepository {
	return &GormFarmWorkRepository{db: db}
}

// Create creates a new farm work
func (r *GormFarmWorkRepository) Create(work *models.FarmWork) error {
	return r.db.Create(work).Error
}

// FindByID finds a farm work by ID with optional preloading
func (r *GormFarmWorkRepository) FindByID(id uint64, preload ...string) (*models.FarmWork, error) {
	var work models.FarmWork
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&work, id).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

// List retrieves farm works in triage order with filtering and pagination
func (r *GormFarmWorkRepository) List(filter FarmWorkFilter) ([]models.FarmWork, int64, error) {
	var works []models.FarmWork

	query := r.db.Model(&models.FarmWork{})
	if filter.LandID != nil {
		query = query.Where("farm_works.land_id = ?", *filter.LandID)
	}
	if filter.TeamID != nil {
		query = query.Where("farm_works.team_id = ?", *filter.TeamID)
	}
	if filter.WorkTypeID != nil {
		query = query.Where("farm_works.work_type_id = ?", *filter.WorkTypeID)
	}
	if filter.Status != nil {
		query = query.Where("farm_works.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order(workTriageOrder).
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	err := listQuery.
		Preload("Land").
		Preload("WorkType").
		Preload("WorkType.Category").
		Preload("Creator").
		Find(&works).Error
	if err != nil {
		return nil, 0, err
	}

	return works, total, nil
}

// Update updates a farm work
func (r *GormFarmWorkRepository) Update(work *models.FarmWork) error {
	return r.db.Save(work).Error
}

// Delete soft deletes a farm work
func (r *GormFarmWorkRepository) Delete(id uint64) error {
	return r.db.Delete(&models.FarmWork{}, id).Error
}

// HasOpenHarvestWork reports whether a non-terminal harvest work already
// exists for the land, either due on the given date with the harvest
// provenance tag or created within the duplicate-guard window for a
// harvest work type.
func (r *GormFarmWorkRepository) HasOpenHarvestWork(landID uint64, dueDate time.Time, windowDays int) (bool, error) {
	windowStart := time.Now().AddDate(0, 0, -windowDays)

	var candidates []models.FarmWork
	err := r.db.
		Preload("WorkType").
		Preload("WorkType.Category").
		Where("land_id = ?", landID).
		Where("status NOT IN ?", []models.WorkState{models.WorkStateCompleted, models.WorkStateCanceled}).
		Where("due_date = ? OR created_at >= ?", dueDate, windowStart).
		Find(&candidates).Error
	if err != nil {
		return false, err
	}

	for _, work := range candidates {
		if work.CreatedFrom() == models.ProvenanceHarvestNotification {
			return true, nil
		}
		if isHarvestWorkType(&work.WorkType) {
			return true, nil
		}
	}
	return false, nil
}

// FindHarvestWorkType returns the first active work type whose own name or
// category name contains "harvest", case-insensitively. First match by id
// wins; there is no further tie-break.
func (r *GormFarmWorkRepository) FindHarvestWorkType() (*models.WorkType, error) {
	var workType models.WorkType
	err := r.db.
		Joins("LEFT JOIN work_categories ON work_categories.id = work_types.category_id").
		Where("work_types.is_active = ?", true).
		Where("LOWER(work_types.name) LIKE ? OR LOWER(work_categories.name) LIKE ?", "%harvest%", "%harvest%").
		Order("work_types.id ASC").
		First(&workType).Error
	if err != nil {
		return nil, err
	}
	return &workType, nil
}

// FindHarvestBridgedWork finds the work created from a harvest
// notification for (land, due date)
func (r *GormFarmWorkRepository) FindHarvestBridgedWork(landID uint64, dueDate time.Time) (*models.FarmWork, error) {
	var candidates []models.FarmWork
	err := r.db.
		Where("land_id = ?", landID).
		Where("due_date = ?", dueDate).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if candidates[i].CreatedFrom() == models.ProvenanceHarvestNotification {
			return &candidates[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// CreateAudit appends a status audit row
func (r *GormFarmWorkRepository) CreateAudit(audit *models.WorkAudit) error {
	return r.db.Create(audit).Error
}

// ListAudits returns the audit trail for a work, oldest first
func (r *GormFarmWorkRepository) ListAudits(workID uint64) ([]models.WorkAudit, error) {
	var audits []models.WorkAudit
	err := r.db.
		Where("work_id = ?", workID).
		Order("id ASC").
		Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}

func isHarvestWorkType(t *models.WorkType) bool {
	if t == nil {
		return false
	}
	if strings.Contains(strings.ToLower(t.Name), "harvest") {
		return true
	}
	if t.Category != nil && strings.Contains(strings.ToLower(t.Category.Name), "harvest") {
		return true
	}
	return false
}

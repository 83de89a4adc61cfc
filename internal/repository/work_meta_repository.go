package repository

import (
	"github.com/croftside/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkMetaRepository is a GORM implementation of WorkMetaRepository
type GormWorkMetaRepository struct {
	db *gorm.DB
}

// NewWorkMetaRepository creates a new WorkMetaRepository
func NewWorkMetaRepository(db *gorm.DB) WorkMetaRepository {
	return &GormWorkMetaRepository{db: db}
}

func (r *GormWorkMetaRepository) ListTypes(activeOnly bool) ([]models.WorkType, error) {
	var types []models.WorkType
	query := r.db.Preload("Category").Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormWorkMetaRepository) FindTypeByID(id uint64) (*models.WorkType, error) {
	var t models.WorkType
	if err := r.db.Preload("Category").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormWorkMetaRepository) CreateType(t *models.WorkType) error {
	return r.db.Create(t).Error
}

func (r *GormWorkMetaRepository) UpdateType(t *models.WorkType) error {
	return r.db.Save(t).Error
}

func (r *GormWorkMetaRepository) DeactivateType(id uint64) error {
	return r.db.Model(&models.WorkType{}).Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *GormWorkMetaRepository) ListCategories(activeOnly bool) ([]models.WorkCategory, error) {
	var categories []models.WorkCategory
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormWorkMetaRepository) FindCategoryByID(id uint64) (*models.WorkCategory, error) {
	var cat models.WorkCategory
	if err := r.db.First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormWorkMetaRepository) CreateCategory(cat *models.WorkCategory) error {
	return r.db.Create(cat).Error
}

func (r *GormWorkMetaRepository) UpdateCategory(cat *models.WorkCategory) error {
	return r.db.Save(cat).Error
}

func (r *GormWorkMetaRepository) DeactivateCategory(id uint64) error {
	return r.db.Model(&models.WorkCategory{}).Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *GormWorkMetaRepository) ListStatuses(activeOnly bool) ([]models.WorkStatus, error) {
	var statuses []models.WorkStatus
	query := r.db.Order("sort_order ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *GormWorkMetaRepository) FindStatusByName(name string) (*models.WorkStatus, error) {
	var status models.WorkStatus
	if err := r.db.Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *GormWorkMetaRepository) CreateNote(note *models.WorkNote) error {
	return r.db.Create(note).Error
}

func (r *GormWorkMetaRepository) ListNotes(workID uint64) ([]models.WorkNote, error) {
	var notes []models.WorkNote
	err := r.db.
		Where("work_id = ?", workID).
		Preload("Author").
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormWorkMetaRepository) CreateCompletion(completion *models.WorkCompletion) error {
	return r.db.Create(completion).Error
}

func (r *GormWorkMetaRepository) FindCompletion(workID uint64) (*models.WorkCompletion, error) {
	var completion models.WorkCompletion
	if err := r.db.Where("work_id = ?", workID).First(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WorkMetaHandler serves the configurable work type, category and status
// tables.
type WorkMetaHandler struct {
	workMetaRepo repository.WorkMetaRepository
}

// NewWorkMetaHandler creates a new WorkMetaHandler
func NewWorkMetaHandler(workMetaRepo repository.WorkMetaRepository) *WorkMetaHandler {
	return &WorkMetaHandler{workMetaRepo: workMetaRepo}
}

// ListWorkTypes returns work types with their categories
func (h *WorkMetaHandler) ListWorkTypes(c *gin.Context) {
	types, err := h.workMetaRepo.ListTypes(c.Query("include_inactive") != "true")
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch work types")
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_types": types})
}

// CreateWorkType creates a work type
func (h *WorkMetaHandler) CreateWorkType(c *gin.Context) {
	type CreateWorkTypeRequest struct {
		Name       string  `json:"name" binding:"required"`
		Icon       string  `json:"icon"`
		CategoryID *uint64 `json:"category_id"`
	}

	var req CreateWorkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	t := &models.WorkType{
		Name:       req.Name,
		Icon:       req.Icon,
		CategoryID: req.CategoryID,
		IsActive:   true,
	}
	if err := h.workMetaRepo.CreateType(t); err != nil {
		apierrors.InternalError(c, "Failed to create work type")
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateWorkType applies a sparse patch to a work type
func (h *WorkMetaHandler) UpdateWorkType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateWorkTypeRequest struct {
		Name       *string `json:"name"`
		Icon       *string `json:"icon"`
		CategoryID *uint64 `json:"category_id"`
		IsActive   *bool   `json:"is_active"`
	}

	var req UpdateWorkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	t, err := h.workMetaRepo.FindTypeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Work type not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch work type")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			apierrors.BadRequest(c, "Name cannot be empty")
			return
		}
		t.Name = *req.Name
	}
	if req.Icon != nil {
		t.Icon = *req.Icon
	}
	if req.CategoryID != nil {
		t.CategoryID = req.CategoryID
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := h.workMetaRepo.UpdateType(t); err != nil {
		apierrors.InternalError(c, "Failed to update work type")
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeactivateWorkType clears the active flag on a work type
func (h *WorkMetaHandler) DeactivateWorkType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.workMetaRepo.DeactivateType(id); err != nil {
		apierrors.InternalError(c, "Failed to deactivate work type")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work type deactivated"})
}

// ListWorkCategories returns work categories
func (h *WorkMetaHandler) ListWorkCategories(c *gin.Context) {
	categories, err := h.workMetaRepo.ListCategories(c.Query("include_inactive") != "true")
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch work categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_categories": categories})
}

// CreateWorkCategory creates a work category
func (h *WorkMetaHandler) CreateWorkCategory(c *gin.Context) {
	type CreateWorkCategoryRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateWorkCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	cat := &models.WorkCategory{Name: req.Name, IsActive: true}
	if err := h.workMetaRepo.CreateCategory(cat); err != nil {
		apierrors.InternalError(c, "Failed to create work category")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// UpdateWorkCategory applies a sparse patch to a work category
func (h *WorkMetaHandler) UpdateWorkCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateWorkCategoryRequest struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}

	var req UpdateWorkCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	cat, err := h.workMetaRepo.FindCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Work category not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch work category")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			apierrors.BadRequest(c, "Name cannot be empty")
			return
		}
		cat.Name = *req.Name
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.workMetaRepo.UpdateCategory(cat); err != nil {
		apierrors.InternalError(c, "Failed to update work category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

// DeactivateWorkCategory clears the active flag on a work category
func (h *WorkMetaHandler) DeactivateWorkCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.workMetaRepo.DeactivateCategory(id); err != nil {
		apierrors.InternalError(c, "Failed to deactivate work category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work category deactivated"})
}

// ListWorkStatuses returns the seeded status rows in sort order
func (h *WorkMetaHandler) ListWorkStatuses(c *gin.Context) {
	statuses, err := h.workMetaRepo.ListStatuses(true)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch work statuses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_statuses": statuses})
}

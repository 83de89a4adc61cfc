package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/croftside/farm-management-api/internal/dto"
	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/middleware"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LandHandler serves land CRUD. Lands are never deleted, only
// deactivated.
type LandHandler struct {
	landRepo repository.LandRepository
}

// NewLandHandler creates a new LandHandler
func NewLandHandler(landRepo repository.LandRepository) *LandHandler {
	return &LandHandler{landRepo: landRepo}
}

// ListLands returns lands with pagination
func (h *LandHandler) ListLands(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.LandFilter{
		ActiveOnly: c.Query("include_inactive") != "true",
		Page:       params.Page,
		PageSize:   params.Limit,
	}
	if teamIDStr := c.Query("team_id"); teamIDStr != "" {
		teamID, err := strconv.ParseUint(teamIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		filter.TeamID = &teamID
	}
	if c.Query("mine") == "true" {
		if userID, exists := middleware.GetUserID(c); exists {
			filter.CreatedBy = &userID
		}
	}

	lands, total, err := h.landRepo.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch lands")
		return
	}

	dtos := make([]dto.LandDTO, len(lands))
	for i, land := range lands {
		dtos[i] = dto.ToLandDTO(land)
	}

	c.JSON(http.StatusOK, gin.H{
		"lands": dtos,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetLand returns a single land
func (h *LandHandler) GetLand(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	land, err := h.landRepo.FindByID(id, "Team")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Land not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch land")
		return
	}

	c.JSON(http.StatusOK, dto.ToLandDTO(*land))
}

// CreateLand creates a new land
func (h *LandHandler) CreateLand(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateLandRequest struct {
		Name                string     `json:"name" binding:"required"`
		Code                string     `json:"code" binding:"required"`
		AreaHectares        float64    `json:"area_hectares"`
		PlantType           string     `json:"plant_type"`
		PlantingDate        *time.Time `json:"planting_date"`
		HarvestCycleDays    int        `json:"harvest_cycle_days"`
		PreviousHarvestDate *time.Time `json:"previous_harvest_date"`
		TeamID              *uint64    `json:"team_id"`
	}

	var req CreateLandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.HarvestCycleDays < 0 {
		apierrors.BadRequest(c, "harvest_cycle_days cannot be negative")
		return
	}

	land := &models.Land{
		Name:                req.Name,
		Code:                req.Code,
		AreaHectares:        req.AreaHectares,
		PlantType:           req.PlantType,
		PlantingDate:        req.PlantingDate,
		HarvestCycleDays:    req.HarvestCycleDays,
		PreviousHarvestDate: req.PreviousHarvestDate,
		CreatedBy:           userID,
		TeamID:              req.TeamID,
		IsActive:            true,
	}
	if err := h.landRepo.Create(land); err != nil {
		apierrors.InternalError(c, "Failed to create land")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLandDTO(*land))
}

// UpdateLand applies a sparse patch to a land. Changing the harvest
// inputs clears next_harvest_date so the next scan recomputes it.
func (h *LandHandler) UpdateLand(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	land, err := h.landRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Land not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch land")
		return
	}

	type UpdateLandRequest struct {
		Name                *string    `json:"name"`
		AreaHectares        *float64   `json:"area_hectares"`
		PlantType           *string    `json:"plant_type"`
		PlantingDate        *time.Time `json:"planting_date"`
		HarvestCycleDays    *int       `json:"harvest_cycle_days"`
		PreviousHarvestDate *time.Time `json:"previous_harvest_date"`
		TeamID              *uint64    `json:"team_id"`
		IsActive            *bool      `json:"is_active"`
	}

	var req UpdateLandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		land.Name = *req.Name
	}
	if req.AreaHectares != nil {
		land.AreaHectares = *req.AreaHectares
	}
	if req.PlantType != nil {
		land.PlantType = *req.PlantType
	}
	if req.PlantingDate != nil {
		land.PlantingDate = req.PlantingDate
	}
	if req.HarvestCycleDays != nil {
		if *req.HarvestCycleDays < 0 {
			apierrors.BadRequest(c, "harvest_cycle_days cannot be negative")
			return
		}
		land.HarvestCycleDays = *req.HarvestCycleDays
		land.NextHarvestDate = nil
	}
	if req.PreviousHarvestDate != nil {
		land.PreviousHarvestDate = req.PreviousHarvestDate
		land.NextHarvestDate = nil
	}
	if req.TeamID != nil {
		land.TeamID = req.TeamID
	}
	if req.IsActive != nil {
		land.IsActive = *req.IsActive
	}

	if err := h.landRepo.Update(land); err != nil {
		apierrors.InternalError(c, "Failed to update land")
		return
	}

	c.JSON(http.StatusOK, dto.ToLandDTO(*land))
}

// DeactivateLand clears the active flag
func (h *LandHandler) DeactivateLand(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.landRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Land not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch land")
		return
	}

	if err := h.landRepo.Deactivate(id); err != nil {
		apierrors.InternalError(c, "Failed to deactivate land")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Land deactivated"})
}

// parseIDParam reads the :id URL parameter.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

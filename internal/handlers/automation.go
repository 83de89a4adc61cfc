package handlers

import (
	"errors"
	"net/http"
	"time"

	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AutomationHandler exposes the automated work creation triggers that do
// not run on a schedule: weather alerts and scheduled maintenance.
type AutomationHandler struct {
	landRepo      repository.LandRepository
	bridgeService *services.FarmWorkNotificationService
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(landRepo repository.LandRepository, bridgeService *services.FarmWorkNotificationService) *AutomationHandler {
	return &AutomationHandler{landRepo: landRepo, bridgeService: bridgeService}
}

// CreateWeatherAlert creates an urgent inspection work per affected land
// and notifies each responsible user.
func (h *AutomationHandler) CreateWeatherAlert(c *gin.Context) {
	type WeatherAlertRequest struct {
		LandIDs    []uint64 `json:"land_ids" binding:"required,min=1"`
		WorkTypeID uint64   `json:"work_type_id" binding:"required"`
		Title      string   `json:"title" binding:"required"`
		Message    string   `json:"message"`
	}

	var req WeatherAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	created := make([]uint64, 0, len(req.LandIDs))
	for _, landID := range req.LandIDs {
		land, err := h.landRepo.FindByID(landID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Land not found")
				return
			}
			apierrors.InternalError(c, "Failed to fetch land")
			return
		}

		result, err := h.bridgeService.CreateWeatherFarmWork(land, req.WorkTypeID, req.Title, req.Message)
		if err != nil {
			apierrors.InternalError(c, "Failed to create weather work")
			return
		}
		created = append(created, result.Work.ID)
	}

	c.JSON(http.StatusCreated, gin.H{"work_ids": created})
}

// ScheduleMaintenance creates a maintenance work for a land and notifies
// the responsible user.
func (h *AutomationHandler) ScheduleMaintenance(c *gin.Context) {
	type ScheduleMaintenanceRequest struct {
		LandID      uint64    `json:"land_id" binding:"required"`
		WorkTypeID  uint64    `json:"work_type_id" binding:"required"`
		DueDate     time.Time `json:"due_date" binding:"required"`
		Description string    `json:"description"`
	}

	var req ScheduleMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	land, err := h.landRepo.FindByID(req.LandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Land not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch land")
		return
	}

	result, err := h.bridgeService.CreateMaintenanceFarmWork(land, req.WorkTypeID, req.DueDate, req.Description)
	if err != nil {
		apierrors.InternalError(c, "Failed to create maintenance work")
		return
	}

	c.JSON(http.StatusCreated, result.Work)
}

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
	"github.com/croftside/farm-management-api/internal/services"
	"github.com/croftside/farm-management-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// FarmWorkHandler serves the farm work endpoints: CRUD, audit trail,
// notes and completion reports.
type FarmWorkHandler struct {
	farmWorkService *services.FarmWorkService
}

// NewFarmWorkHandler creates a new FarmWorkHandler
func NewFarmWorkHandler(farmWorkService *services.FarmWorkService) *FarmWorkHandler {
	return &FarmWorkHandler{farmWorkService: farmWorkService}
}

// ListFarmWorks returns works in triage order with pagination
func (h *FarmWorkHandler) ListFarmWorks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.FarmWorkFilter{
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if v := c.Query("land_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid land_id")
			return
		}
		filter.LandID = &id
	}
	if v := c.Query("team_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		filter.TeamID = &id
	}
	if v := c.Query("work_type_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid work_type_id")
			return
		}
		filter.WorkTypeID = &id
	}
	if v := c.Query("status"); v != "" {
		state, err := models.ParseWorkState(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		filter.Status = &state
	}

	works, total, err := h.farmWorkService.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch farm works")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"farm_works": dto.ToFarmWorkDTOs(works),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetFarmWork returns one work with its detail view
func (h *FarmWorkHandler) GetFarmWork(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	work, err := h.farmWorkService.Get(id)
	if err != nil {
		respondWorkError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFarmWorkDTO(*work))
}

// CreateFarmWork creates a new farm work
func (h *FarmWorkHandler) CreateFarmWork(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateFarmWorkRequest struct {
		Title          string         `json:"title" binding:"required"`
		Description    string         `json:"description"`
		LandID         *uint64        `json:"land_id"`
		WorkTypeID     uint64         `json:"work_type_id" binding:"required"`
		Priority       string         `json:"priority_level"`
		AssignerUserID *uint64        `json:"assigner_user_id"`
		TeamID         *uint64        `json:"team_id"`
		DueDate        *time.Time     `json:"due_date"`
		Metadata       map[string]any `json:"metadata"`
	}

	var req CreateFarmWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var priority models.Priority
	if req.Priority != "" {
		parsed, err := models.ParsePriority(req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority_level")
			return
		}
		priority = parsed
	}

	work, err := h.farmWorkService.Create(services.CreateFarmWorkInput{
		Title:          req.Title,
		Description:    req.Description,
		LandID:         req.LandID,
		WorkTypeID:     req.WorkTypeID,
		Priority:       priority,
		CreatorUserID:  userID,
		AssignerUserID: req.AssignerUserID,
		TeamID:         req.TeamID,
		DueDate:        req.DueDate,
		Metadata:       req.Metadata,
	})
	if err != nil {
		respondWorkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFarmWorkDTO(*work))
}

// UpdateFarmWork applies a sparse patch; status changes drive the audit
// trail and the notification sync downstream.
func (h *FarmWorkHandler) UpdateFarmWork(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateFarmWorkRequest struct {
		Title          *string    `json:"title"`
		Description    *string    `json:"description"`
		Priority       *string    `json:"priority_level"`
		Status         *string    `json:"status"`
		StatusNote     string     `json:"status_note"`
		AssignerUserID *uint64    `json:"assigner_user_id"`
		TeamID         *uint64    `json:"team_id"`
		DueDate        *time.Time `json:"due_date"`
	}

	var req UpdateFarmWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateFarmWorkInput{
		Title:          req.Title,
		Description:    req.Description,
		StatusNote:     req.StatusNote,
		AssignerUserID: req.AssignerUserID,
		TeamID:         req.TeamID,
		DueDate:        req.DueDate,
		ChangedBy:      userID,
	}
	if req.Priority != nil {
		priority, err := models.ParsePriority(*req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority_level")
			return
		}
		input.Priority = &priority
	}
	if req.Status != nil {
		state, err := models.ParseWorkState(*req.Status)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &state
	}

	work, err := h.farmWorkService.Update(id, input)
	if err != nil {
		respondWorkError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFarmWorkDTO(*work))
}

// DeleteFarmWork soft deletes a work
func (h *FarmWorkHandler) DeleteFarmWork(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.farmWorkService.Delete(id); err != nil {
		respondWorkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Farm work deleted"})
}

// ListAudits returns the status audit trail, oldest first
func (h *FarmWorkHandler) ListAudits(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	audits, err := h.farmWorkService.ListAudits(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch audit trail")
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": audits})
}

// AddNote attaches a note to a work
func (h *FarmWorkHandler) AddNote(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AddNoteRequest struct {
		Body string `json:"body" binding:"required"`
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.farmWorkService.AddNote(id, userID, req.Body)
	if err != nil {
		respondWorkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// ListNotes returns the notes for a work, newest first
func (h *FarmWorkHandler) ListNotes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	notes, err := h.farmWorkService.ListNotes(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// CompleteFarmWork records a completion report
func (h *FarmWorkHandler) CompleteFarmWork(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CompleteRequest struct {
		Summary    string  `json:"summary"`
		HoursSpent float64 `json:"hours_spent"`
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	completion, err := h.farmWorkService.Complete(id, userID, req.Summary, req.HoursSpent)
	if err != nil {
		respondWorkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, completion)
}

func respondWorkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkNotFound):
		apierrors.NotFound(c, "Farm work not found")
	case errors.Is(err, services.ErrWorkTitleRequired),
		errors.Is(err, services.ErrWorkTypeRequired),
		errors.Is(err, services.ErrWorkCreatorRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWorkAlreadyComplete):
		apierrors.Conflict(c, "Farm work already completed")
	default:
		apierrors.InternalError(c, "")
	}
}

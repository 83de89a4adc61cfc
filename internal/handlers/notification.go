package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/croftside/farm-management-api/internal/dto"
	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/middleware"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/services"
	"github.com/croftside/farm-management-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the notification endpoints. Reads are always
// scoped to the authenticated user.
type NotificationHandler struct {
	notificationService *services.NotificationService
	harvestService      *services.HarvestService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService, harvestService *services.HarvestService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		harvestService:      harvestService,
	}
}

// ListNotifications returns the caller's notifications with pagination
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	params := utils.GetPaginationParams(c)

	filter := repository.NotificationFilter{
		UserID:     userID,
		UnreadOnly: c.Query("unread") == "true",
		Page:       params.Page,
		PageSize:   params.Limit,
	}
	if v := c.Query("land_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid land_id")
			return
		}
		filter.LandID = &id
	}
	if v := c.Query("type"); v != "" {
		filter.Type = &v
	}

	notifications, total, err := h.notificationService.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": dto.ToNotificationDTOs(notifications),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetStats returns notification counts for the caller
func (h *NotificationHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.notificationService.Stats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notification stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// MarkRead marks a notification read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.ownerAction(c, h.notificationService.MarkRead, "Notification marked read")
}

// Dismiss dismisses a notification
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	h.ownerAction(c, h.notificationService.Dismiss, "Notification dismissed")
}

// DeleteNotification removes a notification
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	h.ownerAction(c, h.notificationService.Delete, "Notification deleted")
}

// CreateBulkNotification fans a notification out to the given users, or
// to every active user when broadcast is set. Admin only.
func (h *NotificationHandler) CreateBulkNotification(c *gin.Context) {
	type BulkRequest struct {
		UserIDs   []uint64 `json:"user_ids"`
		Broadcast bool     `json:"broadcast"`
		Title     string   `json:"title" binding:"required"`
		Message   string   `json:"message" binding:"required"`
		Priority  string   `json:"priority"`
	}

	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		parsed, err := models.ParsePriority(req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		priority = parsed
	}

	var created int
	var err error
	if req.Broadcast {
		created, err = h.notificationService.CreateSystemNotification(req.Title, req.Message)
	} else {
		created, err = h.notificationService.CreateBulkNotification(req.UserIDs, req.Title, req.Message, priority)
	}
	if err != nil {
		if errors.Is(err, services.ErrNoRecipients) {
			apierrors.BadRequest(c, "At least one recipient is required")
			return
		}
		// Fan-out is not transactional; report what was written.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   apierrors.ErrCodeInternal,
			"message": "Fan-out failed partway through",
			"created": created,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

// Cleanup removes dismissed notifications older than the given number of
// days. Admin only.
func (h *NotificationHandler) Cleanup(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("older_than_days", "30"))
	if err != nil || days < 1 {
		apierrors.BadRequest(c, "Invalid older_than_days")
		return
	}

	deleted, err := h.notificationService.Cleanup(days)
	if err != nil {
		apierrors.InternalError(c, "Failed to clean up notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// RunHarvestScan triggers the harvest scan on demand. Admin only; the
// scheduler runs the same scan daily.
func (h *NotificationHandler) RunHarvestScan(c *gin.Context) {
	result, err := h.harvestService.CheckHarvestNotifications()
	if err != nil {
		apierrors.InternalError(c, "Harvest scan failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *NotificationHandler) ownerAction(c *gin.Context, action func(id, userID uint64) error, message string) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := action(id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			apierrors.NotFound(c, "Notification not found")
		case errors.Is(err, services.ErrNotNotificationOwner):
			apierrors.Forbidden(c, "Notification belongs to another user")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

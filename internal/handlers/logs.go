package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/middleware"
	"github.com/croftside/farm-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// LogHandler serves the admin log viewer and client error ingestion.
type LogHandler struct {
	logService *services.LogService
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(logService *services.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// TailErrorLog returns the last entries of the error log. Admin only.
func (h *LogHandler) TailErrorLog(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 1000 {
		apierrors.BadRequest(c, "Invalid limit")
		return
	}

	entries, err := h.logService.Tail(limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to read error log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ReportClientError records a frontend error into the log stream
func (h *LogHandler) ReportClientError(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var report services.ClientReport
	if err := c.ShouldBindJSON(&report); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if report.Message == "" {
		apierrors.BadRequest(c, "message is required")
		return
	}

	h.logService.RecordClientError(userID, report)
	c.JSON(http.StatusAccepted, gin.H{"message": "Recorded"})
}

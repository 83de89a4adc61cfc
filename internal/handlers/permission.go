package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/middleware"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PermissionHandler serves the endpoint permission matrix. Admin only.
type PermissionHandler struct {
	permRepo repository.PermissionRepository
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(permRepo repository.PermissionRepository) *PermissionHandler {
	return &PermissionHandler{permRepo: permRepo}
}

// ListPermissions returns all permission overrides
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	perms, err := h.permRepo.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch permissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": perms})
}

// UpsertPermission creates or updates the minimum role for an endpoint key
func (h *PermissionHandler) UpsertPermission(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpsertRequest struct {
		Endpoint string `json:"endpoint" binding:"required"`
		MinRole  string `json:"min_role" binding:"required"`
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := models.ParseRole(req.MinRole)
	if err != nil {
		apierrors.BadRequest(c, "Invalid min_role")
		return
	}

	perm := &models.EndpointPermission{
		Endpoint:  req.Endpoint,
		MinRole:   role,
		UpdatedBy: userID,
	}
	if err := h.permRepo.Upsert(perm); err != nil {
		apierrors.InternalError(c, "Failed to save permission")
		return
	}

	c.JSON(http.StatusOK, perm)
}

// DeletePermission removes an override, restoring the compiled default
func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	endpoint := c.Param("endpoint")
	if endpoint == "" {
		apierrors.BadRequest(c, "Missing endpoint")
		return
	}

	if _, err := h.permRepo.FindByEndpoint(endpoint); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Permission not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch permission")
		return
	}

	if err := h.permRepo.Delete(endpoint); err != nil {
		apierrors.InternalError(c, "Failed to delete permission")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permission removed"})
}

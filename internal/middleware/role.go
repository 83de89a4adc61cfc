package middleware

import (
	"errors"

	apierrors "github.com/croftside/farm-management-api/internal/errors"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireRole enforces the role hierarchy for an endpoint key. The
// compiled-in fallback role applies unless an admin stored an override in
// the permission matrix.
func RequireRole(permRepo repository.PermissionRepository, endpoint string, fallback models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetUserRole(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		required := fallback
		override, err := permRepo.FindByEndpoint(endpoint)
		if err == nil {
			required = override.MinRole
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Matrix lookup failures fall back to the compiled default
			// rather than locking everyone out.
			required = fallback
		}

		if role.Rank() < required.Rank() {
			apierrors.Forbidden(c, "Insufficient role for this operation")
			c.Abort()
			return
		}

		c.Next()
	}
}

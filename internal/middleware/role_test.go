package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/croftside/farm-management-api/internal/constants"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRoleTest(t *testing.T) repository.PermissionRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.EndpointPermission{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return repository.NewPermissionRepository(db)
}

func performGuarded(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func buildRouter(permRepo repository.PermissionRepository, role models.Role, endpoint string, fallback models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			c.Set(constants.ContextKeyUserID, uint64(1))
			c.Set(constants.ContextKeyUserRole, role)
		},
		RequireRole(permRepo, endpoint, fallback),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	return r
}

func TestRequireRole_FallbackHierarchy(t *testing.T) {
	permRepo := setupRoleTest(t)

	cases := []struct {
		role     models.Role
		fallback models.Role
		want     int
	}{
		{models.RoleUser, models.RoleAdmin, http.StatusForbidden},
		{models.RoleContributor, models.RoleAdmin, http.StatusForbidden},
		{models.RoleAdmin, models.RoleAdmin, http.StatusOK},
		{models.RoleUser, models.RoleContributor, http.StatusForbidden},
		{models.RoleContributor, models.RoleContributor, http.StatusOK},
		{models.RoleAdmin, models.RoleUser, http.StatusOK},
	}
	for _, tc := range cases {
		r := buildRouter(permRepo, tc.role, "guarded.op", tc.fallback)
		w := performGuarded(r)
		require.Equal(t, tc.want, w.Code, "role=%s fallback=%s", tc.role, tc.fallback)
	}
}

func TestRequireRole_MatrixOverrideWins(t *testing.T) {
	permRepo := setupRoleTest(t)

	// Compiled default says admin; the stored override relaxes it to user.
	require.NoError(t, permRepo.Upsert(&models.EndpointPermission{
		Endpoint:  "guarded.op",
		MinRole:   models.RoleUser,
		UpdatedBy: 1,
	}))

	r := buildRouter(permRepo, models.RoleUser, "guarded.op", models.RoleAdmin)
	require.Equal(t, http.StatusOK, performGuarded(r).Code)

	// Tighten the override back to admin.
	require.NoError(t, permRepo.Upsert(&models.EndpointPermission{
		Endpoint:  "guarded.op",
		MinRole:   models.RoleAdmin,
		UpdatedBy: 1,
	}))

	r = buildRouter(permRepo, models.RoleContributor, "guarded.op", models.RoleUser)
	require.Equal(t, http.StatusForbidden, performGuarded(r).Code)
}

func TestRequireRole_MissingIdentity(t *testing.T) {
	permRepo := setupRoleTest(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		RequireRole(permRepo, "guarded.op", models.RoleUser),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)

	w := performGuarded(r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/dto"
	"github.com/croftside/farm-management-api/internal/middleware"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	handler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/signup", handler.Signup)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/refresh", handler.Refresh)
	r.GET("/api/auth/me", middleware.RequireAuth(authService), handler.GetCurrentUser)

	return authTestEnv{db: db, router: r, authService: authService}
}

func (env authTestEnv) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/signup", map[string]string{
		"email":        "New.User@Farm.Test",
		"password":     "supersecret",
		"display_name": "New User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "new.user@farm.test", response.Email)
	require.Equal(t, models.RoleUser, response.Role)
}

func TestAuthHandler_SignupRejectsShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/signup", map[string]string{
		"email":    "short@farm.test",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_SignupRejectsDuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{"email": "dup@farm.test", "password": "supersecret"}
	require.Equal(t, http.StatusCreated, env.postJSON(t, "/api/auth/signup", payload).Code)
	require.Equal(t, http.StatusConflict, env.postJSON(t, "/api/auth/signup", payload).Code)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Email:    "existing@farm.test",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/api/auth/login", map[string]string{
		"email":    "existing@farm.test",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User   dto.UserDTO        `json:"user"`
		Tokens services.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "existing@farm.test", response.User.Email)
	require.NotEmpty(t, response.Tokens.AccessToken)
	require.NotEmpty(t, response.Tokens.RefreshToken)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+response.Tokens.AccessToken)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, response.User.ID, me.ID)
}

func TestAuthHandler_LoginRejectsBadPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Email:    "victim@farm.test",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/api/auth/login", map[string]string{
		"email":    "victim@farm.test",
		"password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RefreshRotatesPair(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Email:    "rotate@farm.test",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, pair, err := env.authService.Login(services.LoginInput{
		Email:    "rotate@farm.test",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var fresh services.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fresh))
	require.NotEmpty(t, fresh.AccessToken)

	// An access token is not accepted as a refresh token.
	w = env.postJSON(t, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.AccessToken,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

package main

import (
	"log"

	"github.com/croftside/farm-management-api/internal/config"
	"github.com/croftside/farm-management-api/internal/database"
	"github.com/croftside/farm-management-api/internal/handlers"
	"github.com/croftside/farm-management-api/internal/logging"
	"github.com/croftside/farm-management-api/internal/middleware"
	"github.com/croftside/farm-management-api/internal/models"
	"github.com/croftside/farm-management-api/internal/repository"
	"github.com/croftside/farm-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Rotating NDJSON error log
	errorLog, err := logging.NewErrorLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to open error log: %v", err)
	}

	// Repositories
	landRepo := repository.NewLandRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	farmWorkRepo := repository.NewFarmWorkRepository(db)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	workMetaRepo := repository.NewWorkMetaRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	permRepo := repository.NewPermissionRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	bridgeService := services.NewFarmWorkNotificationService(farmWorkRepo, workMetaRepo, teamRepo, notificationService)
	syncService := services.NewSyncService(farmWorkRepo, notificationRepo)
	farmWorkService := services.NewFarmWorkService(farmWorkRepo, workMetaRepo, syncService, notificationService, errorLog)
	harvestService := services.NewHarvestService(landRepo, notificationRepo, notificationService, bridgeService, errorLog)
	photoService := services.NewPhotoService(photoRepo, cfg.UploadDir)
	logService := services.NewLogService(errorLog)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	landHandler := handlers.NewLandHandler(landRepo)
	farmWorkHandler := handlers.NewFarmWorkHandler(farmWorkService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, harvestService)
	teamHandler := handlers.NewTeamHandler(teamRepo, userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	workMetaHandler := handlers.NewWorkMetaHandler(workMetaRepo)
	photoHandler := handlers.NewPhotoHandler(photoService, landRepo, notificationService)
	logHandler := handlers.NewLogHandler(logService)
	permissionHandler := handlers.NewPermissionHandler(permRepo)
	automationHandler := handlers.NewAutomationHandler(landRepo, bridgeService)

	// Daily harvest scan
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.HarvestScanSchedule, func() {
		if _, err := harvestService.CheckHarvestNotifications(); err != nil {
			log.Printf("scheduled harvest scan failed: %v", err)
			errorLog.Error("scheduled harvest scan failed", err)
		}
	}); err != nil {
		log.Fatalf("Invalid harvest scan schedule %q: %v", cfg.HarvestScanSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Gin router
	r := gin.Default()

	requireAuth := middleware.RequireAuth(authService)
	contributor := func(endpoint string) gin.HandlerFunc {
		return middleware.RequireRole(permRepo, endpoint, models.RoleContributor)
	}
	admin := func(endpoint string) gin.HandlerFunc {
		return middleware.RequireRole(permRepo, endpoint, models.RoleAdmin)
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Farm Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Land routes (protected)
		lands := api.Group("/lands")
		lands.Use(requireAuth)
		{
			lands.GET("", landHandler.ListLands)
			lands.GET("/:id", landHandler.GetLand)
			lands.POST("", contributor("lands.create"), landHandler.CreateLand)
			lands.PATCH("/:id", contributor("lands.update"), landHandler.UpdateLand)
			lands.DELETE("/:id", admin("lands.deactivate"), landHandler.DeactivateLand)
			lands.GET("/:id/photos", photoHandler.ListLandPhotos)
		}

		// Farm work routes (protected)
		works := api.Group("/farm-works")
		works.Use(requireAuth)
		{
			works.GET("", farmWorkHandler.ListFarmWorks)
			works.GET("/:id", farmWorkHandler.GetFarmWork)
			works.POST("", contributor("farm_works.create"), farmWorkHandler.CreateFarmWork)
			works.PATCH("/:id", contributor("farm_works.update"), farmWorkHandler.UpdateFarmWork)
			works.DELETE("/:id", admin("farm_works.delete"), farmWorkHandler.DeleteFarmWork)
			works.GET("/:id/audits", farmWorkHandler.ListAudits)
			works.GET("/:id/notes", farmWorkHandler.ListNotes)
			works.POST("/:id/notes", farmWorkHandler.AddNote)
			works.POST("/:id/complete", contributor("farm_works.complete"), farmWorkHandler.CompleteFarmWork)
			works.GET("/:id/photos", photoHandler.ListWorkPhotos)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/stats", notificationHandler.GetStats)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/:id/dismiss", notificationHandler.Dismiss)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
			notifications.POST("/bulk", admin("notifications.bulk"), notificationHandler.CreateBulkNotification)
			notifications.POST("/cleanup", admin("notifications.cleanup"), notificationHandler.Cleanup)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.POST("", admin("teams.create"), teamHandler.CreateTeam)
			teams.PATCH("/:id", admin("teams.update"), teamHandler.UpdateTeam)
			teams.DELETE("/:id", admin("teams.deactivate"), teamHandler.DeactivateTeam)
			teams.POST("/:id/members", admin("teams.members.add"), teamHandler.AddMember)
			teams.DELETE("/:id/members/:userId", admin("teams.members.remove"), teamHandler.RemoveMember)
		}

		// User management (admin)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", admin("users.list"), userHandler.ListUsers)
			users.GET("/:id", admin("users.get"), userHandler.GetUser)
			users.PATCH("/:id", admin("users.update"), userHandler.UpdateUser)
		}

		// Work type/category/status configuration
		meta := api.Group("/work-meta")
		meta.Use(requireAuth)
		{
			meta.GET("/types", workMetaHandler.ListWorkTypes)
			meta.POST("/types", admin("work_meta.types.create"), workMetaHandler.CreateWorkType)
			meta.PATCH("/types/:id", admin("work_meta.types.update"), workMetaHandler.UpdateWorkType)
			meta.DELETE("/types/:id", admin("work_meta.types.deactivate"), workMetaHandler.DeactivateWorkType)
			meta.GET("/categories", workMetaHandler.ListWorkCategories)
			meta.POST("/categories", admin("work_meta.categories.create"), workMetaHandler.CreateWorkCategory)
			meta.PATCH("/categories/:id", admin("work_meta.categories.update"), workMetaHandler.UpdateWorkCategory)
			meta.DELETE("/categories/:id", admin("work_meta.categories.deactivate"), workMetaHandler.DeactivateWorkCategory)
			meta.GET("/statuses", workMetaHandler.ListWorkStatuses)
		}

		// Photo routes (protected)
		photos := api.Group("/photos")
		photos.Use(requireAuth)
		{
			photos.POST("", photoHandler.UploadPhoto)
			photos.GET("/:id", photoHandler.GetPhoto)
			photos.GET("/:id/file", photoHandler.DownloadPhoto)
		}

		// Logs and admin tooling
		logs := api.Group("/logs")
		logs.Use(requireAuth)
		{
			logs.GET("", admin("logs.tail"), logHandler.TailErrorLog)
			logs.POST("/client", logHandler.ReportClientError)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(requireAuth)
		{
			adminGroup.POST("/harvest-scan", admin("admin.harvest_scan"), notificationHandler.RunHarvestScan)
			adminGroup.POST("/weather-alerts", admin("admin.weather_alerts"), automationHandler.CreateWeatherAlert)
			adminGroup.POST("/maintenance", admin("admin.maintenance"), automationHandler.ScheduleMaintenance)
			adminGroup.GET("/permissions", admin("admin.permissions.list"), permissionHandler.ListPermissions)
			adminGroup.PUT("/permissions", admin("admin.permissions.upsert"), permissionHandler.UpsertPermission)
			adminGroup.DELETE("/permissions/:endpoint", admin("admin.permissions.delete"), permissionHandler.DeletePermission)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"contribution-service/internal/config"
	"contribution-service/internal/database"
	"contribution-service/internal/handlers"
	"contribution-service/internal/middleware"
	"contribution-service/internal/services"
)

func main() {
	// Load configuration (includes .env)
	config.InitConfig()
	cfg := config.AppConfig

	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisURL})
	defer asynqClient.Close()

	// Receipts go through the queue so callback handlers never block on SMS
	notifier := services.NewQueueNotifier(asynqClient)

	// Business Logic Services
	c2bService := services.NewC2BService(db, notifier)
	resolutionService := services.NewResolutionService(db, notifier)
	categoryService := services.NewCategoryService(db)
	manualService := services.NewManualContributionService(db, notifier)

	// Handlers
	c2bHandler := handlers.NewC2BHandler(c2bService)
	adminHandler := handlers.NewAdminHandler(db, resolutionService, categoryService, manualService)

	// Initialize Gin
	r := gin.Default()

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Contribution Service",
		})
	})

	// M-Pesa C2B callbacks (called by the network, no auth)
	v1 := r.Group("/api/v1")
	v1.POST("/c2b/validation", c2bHandler.Validation)
	v1.POST("/c2b/confirmation", c2bHandler.Confirmation)

	// Staff routes
	staff := v1.Group("", middleware.StaffAuth(cfg.StaffAPIKey))
	staff.GET("/c2b/unmatched", adminHandler.ListUnmatched)
	staff.POST("/c2b/resolve", adminHandler.Resolve)
	staff.GET("/categories", adminHandler.ListCategories)
	staff.POST("/categories", adminHandler.CreateCategory)
	staff.POST("/contributions/manual", adminHandler.CreateManualContribution)

	// Start Cron Schedulers
	archiveService := services.NewCallbackArchiveService(db, cfg.CallbackRetentionDays)
	archiveService.StartScheduler()

	log.Printf("HTTP Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

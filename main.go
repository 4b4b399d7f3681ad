package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/callmint/backend/pkg/api"
	"github.com/callmint/backend/pkg/clients/smtpmail"
	"github.com/callmint/backend/pkg/config"
	"github.com/callmint/backend/pkg/metrics"
	"github.com/callmint/backend/pkg/middleware"
	"github.com/callmint/backend/pkg/services"
	"github.com/callmint/backend/pkg/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize the mail transport client
	mailClient := smtpmail.NewClient(&cfg.Email)

	// Quota tracking: durable when a database is configured, otherwise
	// in-memory (counters reset on restart)
	var tracker services.Tracker
	var submissionLog services.SubmissionLog
	if cfg.Database.URL != "" {
		st, err := store.Open(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to open submission store: %v", err)
		}
		tracker = st
		submissionLog = st
	} else {
		log.Println("No DATABASE_URL set; quota tracking is in-memory and resets on restart")
		tracker = services.NewMemoryTracker()
	}

	// Initialize services
	submissionService := services.NewSubmissionService(mailClient, tracker, submissionLog)

	// Set Gin to release mode in production
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a new Gin router with default middleware
	router := gin.Default()

	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(metrics.Middleware())

	// Initialize handlers
	handlers := api.NewHandlers(submissionService)

	// Register routes
	router.POST("/api/contact", handlers.HandleContact)
	router.POST("/api/consultation", handlers.HandleConsultation)
	router.POST("/api/dashboard", handlers.HandleAgentRequest)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Start the server
	log.Printf("%s starting on port %s", cfg.App.Name, cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

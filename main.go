package main

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pothole-service/config"
	"pothole-service/database"
	"pothole-service/detector"
	"pothole-service/email"
	"pothole-service/geo"
	"pothole-service/handlers"
	"pothole-service/middleware"
	"pothole-service/rabbitmq"
	"pothole-service/scoring"
	"pothole-service/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg := config.Load()

	// Create database connection
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to create database connection:", err)
	}
	defer db.Close()

	// Ensure reports table exists
	if err := db.EnsureReportsTable(context.Background()); err != nil {
		log.Fatal("Failed to ensure reports table:", err)
	}

	// Initialize RabbitMQ publisher for the report event feed
	var publisher service.Publisher
	rmq, err := rabbitmq.NewPublisher(cfg.GetAMQPURL(), cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey)
	if err != nil {
		log.Printf("Warning: Failed to initialize RabbitMQ publisher: %v", err)
		log.Printf("Report events will not be published. Continuing without RabbitMQ...")
	} else {
		publisher = rmq
		log.Printf("RabbitMQ publisher initialized: exchange=%s, routing_key=%s",
			cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey)
	}

	// Assemble the report pipeline
	pipeline := service.NewPipeline(service.Options{
		Store:      db,
		Detector:   detector.NewClient(cfg.DetectorURL, cfg.DetectorTimeout),
		Notifier:   email.NewSender(cfg.SendGridAPIKey, cfg.SendGridFromName, cfg.SendGridFromEmail, cfg.AlertRecipients),
		Classifier: geo.NewClassifier(cfg.TrafficZones),
		Summarizer: scoring.NewSummarizer(cfg.SevereAreaThreshold, cfg.ModerateAreaThreshold),
		Publisher:  publisher,
		ExtractGPS: func(b []byte) (float64, float64, bool) {
			return geo.LatLon(bytes.NewReader(b))
		},
		PriorityThreshold: cfg.PriorityThreshold,
		MaxImageDimension: cfg.MaxImageDimension,
	})

	// Create handlers
	h := handlers.NewHandlers(pipeline, db)

	// Setup HTTP server
	router := setupRouter(h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if rmq != nil {
		if err := rmq.Close(); err != nil {
			log.Printf("Failed to close RabbitMQ publisher: %v", err)
		}
	}

	log.Println("Server exited")
}

func setupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeaders())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Pothole reporting backend running")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "pothole-service",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.POST("/report", h.Report)
	router.GET("/reports", h.GetReports)
	router.GET("/reports/geojson", h.GetReportsGeoJSON)
	router.POST("/clear_reports", h.ClearReports)

	return router
}

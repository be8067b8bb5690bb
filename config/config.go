package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pothole-service/models"

	"github.com/apex/log"
)

// Config holds all configuration for the pothole service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server configuration
	Port string

	// Detector service configuration
	DetectorURL     string
	DetectorTimeout time.Duration

	// SendGrid configuration
	SendGridAPIKey    string
	SendGridFromName  string
	SendGridFromEmail string
	AlertRecipients   []string

	// RabbitMQ configuration (optional report event feed)
	RabbitMQHost       string
	RabbitMQPort       string
	RabbitMQUser       string
	RabbitMQPassword   string
	RabbitMQExchange   string
	RabbitMQRoutingKey string

	// Scoring configuration
	SevereAreaThreshold   float64
	ModerateAreaThreshold float64
	PriorityThreshold     int

	// Traffic zones used when the caller does not supply a density
	TrafficZones []models.TrafficZone

	// Image preprocessing
	MaxImageDimension int
}

// defaultTrafficZones matches the zones the service shipped with.
var defaultTrafficZones = []models.TrafficZone{
	{MinLat: 12.9700, MaxLat: 12.9800, MinLon: 77.5900, MaxLon: 77.6000},
	{MinLat: 12.9900, MaxLat: 13.0000, MinLon: 77.5800, MaxLon: 77.5900},
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "potholes"),

		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Detector defaults
		DetectorURL:     getEnv("DETECTOR_URL", "http://localhost:9000"),
		DetectorTimeout: getDurationEnv("DETECTOR_TIMEOUT", 60*time.Second),

		// SendGrid defaults
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Pothole Reports"),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "alerts@example.com"),
		AlertRecipients:   getListEnv("ALERT_EMAILS", []string{"authority-email@example.com"}),

		// RabbitMQ defaults
		RabbitMQHost:       getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:       getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:       getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword:   getEnv("RABBITMQ_PASSWORD", "guest"),
		RabbitMQExchange:   getEnv("RABBITMQ_EXCHANGE", "pothole_reports"),
		RabbitMQRoutingKey: getEnv("RABBITMQ_ROUTING_KEY", "report.created"),

		// Scoring defaults
		SevereAreaThreshold:   getFloatEnv("SEVERE_AREA_THRESHOLD", 50000),
		ModerateAreaThreshold: getFloatEnv("MODERATE_AREA_THRESHOLD", 20000),
		PriorityThreshold:     getIntEnv("PRIORITY_THRESHOLD", 5),

		TrafficZones: getZonesEnv("TRAFFIC_ZONES", defaultTrafficZones),

		MaxImageDimension: getIntEnv("MAX_IMAGE_DIMENSION", 1280),
	}
}

// GetAMQPURL returns the AMQP connection URL
func (c *Config) GetAMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RabbitMQUser, c.RabbitMQPassword, c.RabbitMQHost, c.RabbitMQPort)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv gets a float environment variable or returns a default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv gets a comma-separated environment variable or returns a default value
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getZonesEnv parses a JSON array of traffic zones or returns a default value
func getZonesEnv(key string, defaultValue []models.TrafficZone) []models.TrafficZone {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var zones []models.TrafficZone
	if err := json.Unmarshal([]byte(value), &zones); err != nil {
		log.Warnf("Invalid %s, using default zones: %v", key, err)
		return defaultValue
	}
	return zones
}

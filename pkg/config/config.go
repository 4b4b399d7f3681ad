package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values
type Config struct {
	App      AppConfig
	Email    EmailConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name  string
	Port  string
	Debug bool
}

// EmailConfig holds the SMTP transport configuration
type EmailConfig struct {
	Host         string
	Port         int
	Secure       bool // implicit TLS on connect (port 465); otherwise STARTTLS is attempted
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	ContactEmail string // default recipient for operator notifications
	Timeout      time.Duration
}

// DatabaseConfig holds the optional quota/submission store configuration.
// An empty URL means the service runs with in-memory quota tracking only.
type DatabaseConfig struct {
	URL string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:  getEnv("APP_NAME", "CallMint API"),
			Port:  getEnv("PORT", "8080"),
			Debug: getEnvAsBool("DEBUG", false),
		},
		Email: EmailConfig{
			Host:         getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Port:         getEnvAsInt("EMAIL_PORT", 587),
			Secure:       getEnvAsBool("EMAIL_SECURE", false),
			Username:     getEnv("EMAIL_USER", ""),
			Password:     getEnv("EMAIL_PASSWORD", ""),
			FromEmail:    getEnv("EMAIL_FROM", "noreply@callmint.tech"),
			FromName:     getEnv("EMAIL_FROM_NAME", "CallMint.tech"),
			ContactEmail: getEnv("CONTACT_EMAIL", "support@callmint.tech"),
			Timeout:      time.Duration(getEnvAsInt("EMAIL_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
	}
}

// IsPostgres checks if the database URL is for PostgreSQL
func (c *DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://")
}

// SQLitePath extracts the SQLite database path from the URL
func (c *DatabaseConfig) SQLitePath() string {
	if strings.HasPrefix(c.URL, "sqlite:///") {
		return strings.TrimPrefix(c.URL, "sqlite:///")
	}
	return c.URL
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Business details shown to customers
	Business BusinessConfig

	// Address lookup (Mapbox Search Box) configuration
	Address AddressConfig

	// Notification channels (email + WhatsApp)
	Notification NotificationConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error

	EnableRequestLog bool
}

// BusinessConfig holds the customer-facing business details
type BusinessConfig struct {
	Name  string
	Phone string
}

// AddressConfig holds Mapbox Search Box configuration
type AddressConfig struct {
	APIURL         string
	AccessToken    string
	SessionToken   string
	Country        string
	Proximity      string // "lon,lat" bias, defaults to Melbourne CBD
	Types          string
	SuggestLimit   int
	DebounceDelay  time.Duration
	RequestTimeout time.Duration
}

// NotificationConfig is the explicit configuration handed to both dispatchers.
type NotificationConfig struct {
	Mode    string // "dev" logs messages, "production" sends them
	Timeout time.Duration

	// Email (Resend)
	ResendAPIKey       string
	EmailFrom          string
	EmailRecipients    []string
	EmailSubjectPrefix string

	// WhatsApp gateway
	ChatAPIURL     string
	ChatInstanceID string
	ChatAPIToken   string
	ChatRecipients []string
}

// RateLimitConfig holds rate limiting configuration for booking submissions
type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// IsProduction reports whether notifications are really sent
func (n NotificationConfig) IsProduction() bool {
	return n.Mode == "production"
}

// EmailConfigured reports whether the email channel has what it needs to send
func (n NotificationConfig) EmailConfigured() bool {
	return n.ResendAPIKey != "" && len(n.EmailRecipients) > 0
}

// ChatConfigured reports whether the WhatsApp channel has what it needs to send
func (n NotificationConfig) ChatConfigured() bool {
	return n.ChatAPIURL != "" && n.ChatInstanceID != "" && n.ChatAPIToken != "" && len(n.ChatRecipients) > 0
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),

			EnableRequestLog: getEnvAsBool("ENABLE_REQUEST_LOGGING", true),
		},
		Business: BusinessConfig{
			Name:  getEnv("BUSINESS_NAME", "Victoria Cabs"),
			Phone: getEnv("BUSINESS_PHONE", ""),
		},
		Address: AddressConfig{
			APIURL:         getEnv("MAPBOX_API_URL", "https://api.mapbox.com/search/searchbox/v1"),
			AccessToken:    getEnv("MAPBOX_ACCESS_TOKEN", ""),
			SessionToken:   getEnv("MAPBOX_SESSION_TOKEN", ""),
			Country:        getEnv("ADDRESS_COUNTRY", "AU"),
			Proximity:      getEnv("ADDRESS_PROXIMITY", "144.9631,-37.8136"),
			Types:          getEnv("ADDRESS_TYPES", "address,poi,place"),
			SuggestLimit:   getEnvAsInt("ADDRESS_SUGGEST_LIMIT", 5),
			DebounceDelay:  time.Duration(getEnvAsInt("ADDRESS_DEBOUNCE_MS", 300)) * time.Millisecond,
			RequestTimeout: time.Duration(getEnvAsInt("ADDRESS_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Notification: NotificationConfig{
			Mode:               getEnv("NOTIFICATION_MODE", "dev"), // "dev" or "production"
			Timeout:            time.Duration(getEnvAsInt("NOTIFICATION_TIMEOUT_SECONDS", 20)) * time.Second,
			ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
			EmailFrom:          getEnv("EMAIL_FROM", "onboarding@resend.dev"),
			EmailRecipients:    getEnvAsSlice("EMAIL_RECIPIENTS", nil),
			EmailSubjectPrefix: getEnv("EMAIL_SUBJECT_PREFIX", "New Booking Request"),
			ChatAPIURL:         getEnv("WHATSAPP_API_URL", "https://api.green-api.com"),
			ChatInstanceID:     getEnv("WHATSAPP_INSTANCE_ID", ""),
			ChatAPIToken:       getEnv("WHATSAPP_API_TOKEN", ""),
			ChatRecipients:     getEnvAsSlice("WHATSAPP_RECIPIENTS", nil),
		},
		RateLimit: RateLimitConfig{
			Requests:      getEnvAsInt("RATE_LIMIT_REQUESTS", 5),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "X-Request-ID"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Address.SuggestLimit < 1 || c.Address.SuggestLimit > 10 {
		return fmt.Errorf("ADDRESS_SUGGEST_LIMIT must be between 1 and 10, got %d", c.Address.SuggestLimit)
	}

	if c.RateLimit.Requests < 1 || c.RateLimit.WindowSeconds < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW_SECONDS must be positive")
	}

	n := c.Notification
	switch n.Mode {
	case "dev":
		return nil
	case "production":
	default:
		return fmt.Errorf("invalid NOTIFICATION_MODE: %s (must be 'dev' or 'production')", n.Mode)
	}

	// Production mode needs at least one channel that can actually deliver
	if len(n.EmailRecipients) > 0 && n.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required when EMAIL_RECIPIENTS is set in production mode")
	}

	if len(n.ChatRecipients) > 0 && (n.ChatInstanceID == "" || n.ChatAPIToken == "") {
		return fmt.Errorf("WHATSAPP_INSTANCE_ID and WHATSAPP_API_TOKEN are required when WHATSAPP_RECIPIENTS is set in production mode")
	}

	if !n.EmailConfigured() && !n.ChatConfigured() {
		return fmt.Errorf("at least one notification channel (email or WhatsApp) must be configured in production mode")
	}

	if c.Address.AccessToken == "" {
		return fmt.Errorf("MAPBOX_ACCESS_TOKEN is required in production mode")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
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
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma-separated variable, dropping blank entries
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	result := SplitList(valueStr)
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

// SplitList splits a comma-separated list, trimming entries and dropping blanks
func SplitList(s string) []string {
	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

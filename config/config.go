package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// ERPNext (remote document store)
	ERPBaseURL   string
	ERPAPIKey    string
	ERPAPISecret string

	// Redis (optional local repository backing)
	RedisURL string

	// JWT & Security
	JWTSecret          string
	JWTExpirationHours int

	// Dashboard users
	AdminUsername     string
	AdminPasswordHash string
	AdminName         string
	TeamUsername      string
	TeamPasswordHash  string
	TeamName          string

	// Leads
	LeadPhoneRegion string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Notifications
	AutomationWebhookURL string
	SlackWebhookURL      string
	TelegramBotToken     string
	TelegramChatID       string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is picked up first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// ERPNext
		ERPBaseURL:   strings.TrimRight(getEnv("ERP_BASE_URL", ""), "/"),
		ERPAPIKey:    getEnv("ERP_API_KEY", ""),
		ERPAPISecret: getEnv("ERP_API_SECRET", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// JWT
		JWTSecret:          getEnv("JWT_SECRET", "change-this-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),

		// Dashboard users
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminName:         getEnv("ADMIN_NAME", "Administrator"),
		TeamUsername:      getEnv("TEAM_USERNAME", ""),
		TeamPasswordHash:  getEnv("TEAM_PASSWORD_HASH", ""),
		TeamName:          getEnv("TEAM_NAME", "Team"),

		// Leads
		LeadPhoneRegion: getEnv("LEAD_PHONE_REGION", "ES"),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 10),

		// Notifications
		AutomationWebhookURL: getEnv("AUTOMATION_WEBHOOK_URL", ""),
		SlackWebhookURL:      getEnv("SLACK_WEBHOOK_URL", ""),
		TelegramBotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:       getEnv("TELEGRAM_CHAT_ID", ""),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// ERPConfigured reports whether all ERPNext credentials are present.
func (c *Config) ERPConfigured() bool {
	return c.ERPBaseURL != "" && c.ERPAPIKey != "" && c.ERPAPISecret != ""
}

// Validate checks for configurations that are invalid to run with.
// Partial ERP credentials are rejected outright: a half-set credential
// pair would look configured but fail every call.
func (c *Config) Validate() error {
	erpSet := 0
	for _, v := range []string{c.ERPBaseURL, c.ERPAPIKey, c.ERPAPISecret} {
		if v != "" {
			erpSet++
		}
	}
	if erpSet > 0 && erpSet < 3 {
		return fmt.Errorf("partial ERP configuration: ERP_BASE_URL, ERP_API_KEY and ERP_API_SECRET must all be set or all be empty")
	}

	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("partial Telegram configuration: TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must both be set or both be empty")
	}

	if c.APIEnvironment == "production" && c.JWTSecret == "change-this-in-production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
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
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Run("Success - Sensible defaults without any environment", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, "8080", cfg.APIPort)
		assert.Equal(t, "development", cfg.APIEnvironment)
		assert.Equal(t, 24, cfg.JWTExpirationHours)
		assert.Equal(t, "ES", cfg.LeadPhoneRegion)
		assert.False(t, cfg.ERPConfigured())
	})

	t.Run("Success - Trailing slash stripped from the ERP base URL", func(t *testing.T) {
		t.Setenv("ERP_BASE_URL", "https://erp.example.com/")

		cfg := Load()

		assert.Equal(t, "https://erp.example.com", cfg.ERPBaseURL)
	})

	t.Run("Success - CORS origins split and trimmed", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

		cfg := Load()

		assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSAllowedOrigins)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIEnvironment: "development",
			JWTSecret:      "a-real-secret",
		}
	}

	t.Run("Success - Empty ERP credentials are allowed", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("Success - Complete ERP credentials", func(t *testing.T) {
		cfg := valid()
		cfg.ERPBaseURL = "https://erp.example.com"
		cfg.ERPAPIKey = "key"
		cfg.ERPAPISecret = "secret"
		require.NoError(t, cfg.Validate())
	})

	t.Run("Failure - Partial ERP credentials", func(t *testing.T) {
		cfg := valid()
		cfg.ERPBaseURL = "https://erp.example.com"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Failure - Telegram token without chat id", func(t *testing.T) {
		cfg := valid()
		cfg.TelegramBotToken = "bot-token"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Failure - Default JWT secret in production", func(t *testing.T) {
		cfg := valid()
		cfg.APIEnvironment = "production"
		cfg.JWTSecret = "change-this-in-production"
		assert.Error(t, cfg.Validate())
	})
}

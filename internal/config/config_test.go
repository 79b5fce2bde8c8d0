package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "https://accounts.zoho.com", cfg.CRMAccountsURL)
				assert.Equal(t, "https://www.zohoapis.com", cfg.CRMAPIBaseURL)
				assert.Equal(t, "v2", cfg.CRMAPIVersion)
				assert.Equal(t, 15*time.Second, cfg.CRMRequestTimeout)
				assert.Equal(t, 5*time.Minute, cfg.TokenRefreshSkew)
				assert.Equal(t, 60*time.Second, cfg.TokenCooldown)
				assert.False(t, cfg.RespondRequireToken)
				assert.True(t, cfg.PDFOnAccept)
				assert.Equal(t, 2, cfg.ArtifactWorkers)
				assert.Equal(t, 64, cfg.ArtifactQueueSize)
				assert.True(t, cfg.RateLimitEnabled)
				assert.False(t, cfg.CORSEnabled)
				assert.Equal(t, "quotelink", cfg.MetricsNamespace)
				assert.Equal(t, 8081, cfg.MetricsPort)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom crm configuration",
			envVars: map[string]string{
				"ZOHO_ACCOUNTS_URL":            "https://accounts.zoho.eu",
				"ZOHO_API_BASE":                "https://www.zohoapis.eu",
				"ZOHO_API_VERSION":             "v6",
				"ZOHO_CLIENT_ID":               "1000.ABC",
				"ZOHO_CLIENT_SECRET":           "shh",
				"ZOHO_REFRESH_TOKEN":           "1000.refresh",
				"ZOHO_REQUEST_TIMEOUT_SECONDS": "5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://accounts.zoho.eu", cfg.CRMAccountsURL)
				assert.Equal(t, "https://www.zohoapis.eu", cfg.CRMAPIBaseURL)
				assert.Equal(t, "v6", cfg.CRMAPIVersion)
				assert.Equal(t, "1000.ABC", cfg.CRMClientID)
				assert.Equal(t, "shh", cfg.CRMClientSecret)
				assert.Equal(t, "1000.refresh", cfg.CRMRefreshToken)
				assert.Equal(t, 5*time.Second, cfg.CRMRequestTimeout)
			},
		},
		{
			name: "load custom token lifecycle configuration",
			envVars: map[string]string{
				"TOKEN_REFRESH_SKEW_SECONDS": "120",
				"TOKEN_COOLDOWN_SECONDS":     "30",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2*time.Minute, cfg.TokenRefreshSkew)
				assert.Equal(t, 30*time.Second, cfg.TokenCooldown)
			},
		},
		{
			name: "load custom artifact configuration",
			envVars: map[string]string{
				"RENDERER_URL":        "http://renderer:3000",
				"QUOTE_PAGE_URL":      "https://quotes.example.com/",
				"PDF_ON_ACCEPT":       "false",
				"ARTIFACT_WORKERS":    "4",
				"ARTIFACT_QUEUE_SIZE": "8",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://renderer:3000", cfg.RendererURL)
				assert.Equal(t, "https://quotes.example.com/", cfg.QuotePageURL)
				assert.False(t, cfg.PDFOnAccept)
				assert.Equal(t, 4, cfg.ArtifactWorkers)
				assert.Equal(t, 8, cfg.ArtifactQueueSize)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	for _, level := range []string{"info", "warn", "error", ""} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, "release", cfg.GetGinMode(), level)
	}
}

// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ShutdownTimeout bounds graceful shutdown of servers and workers.
	ShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// CRMAccountsURL is the base URL of the Zoho accounts (OAuth) server.
	CRMAccountsURL string
	// CRMAPIBaseURL is the base URL of the Zoho CRM REST API.
	CRMAPIBaseURL string
	// CRMAPIVersion is the CRM API version path segment (e.g., "v2").
	CRMAPIVersion string
	// CRMClientID is the OAuth client id registered with Zoho.
	CRMClientID string
	// CRMClientSecret is the OAuth client secret. Ciphertext when KMSKeyURI is set.
	CRMClientSecret string
	// CRMRefreshToken is the long-lived OAuth refresh token. Ciphertext when KMSKeyURI is set.
	CRMRefreshToken string
	// CRMRedirectURI is the redirect URI used for the authorization-code bootstrap.
	CRMRedirectURI string
	// CRMRequestTimeout bounds every upstream CRM call.
	CRMRequestTimeout time.Duration

	// TokenRefreshSkew is subtracted from the advertised access token lifetime.
	TokenRefreshSkew time.Duration
	// TokenCooldown is the pause enforced after the refresh endpoint reports rate limiting.
	TokenCooldown time.Duration

	// KMSKeyURI is the gocloud.dev secrets URI used to decrypt CRM credentials (optional).
	KMSKeyURI string

	// RespondRequireToken forces link token verification on decision writes.
	RespondRequireToken bool

	// QuotePageURL is the public quote acceptance page rendered into the PDF artifact.
	QuotePageURL string
	// RendererURL is the base URL of the external HTML-to-PDF renderer.
	RendererURL string
	// RendererTimeout bounds a single render call.
	RendererTimeout time.Duration
	// PDFOnAccept enables the PDF side effect after a quote is accepted.
	PDFOnAccept bool
	// ArtifactWorkers is the number of PDF worker goroutines.
	ArtifactWorkers int
	// ArtifactQueueSize is the capacity of the PDF job queue.
	ArtifactQueueSize int

	// RateLimitEnabled indicates whether per-IP rate limiting of public endpoints is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for per-IP rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// CRM
		CRMAccountsURL:    env.GetString("ZOHO_ACCOUNTS_URL", "https://accounts.zoho.com"),
		CRMAPIBaseURL:     env.GetString("ZOHO_API_BASE", "https://www.zohoapis.com"),
		CRMAPIVersion:     env.GetString("ZOHO_API_VERSION", "v2"),
		CRMClientID:       env.GetString("ZOHO_CLIENT_ID", ""),
		CRMClientSecret:   env.GetString("ZOHO_CLIENT_SECRET", ""),
		CRMRefreshToken:   env.GetString("ZOHO_REFRESH_TOKEN", ""),
		CRMRedirectURI:    env.GetString("ZOHO_REDIRECT_URI", ""),
		CRMRequestTimeout: env.GetDuration("ZOHO_REQUEST_TIMEOUT_SECONDS", 15, time.Second),

		// Access token lifecycle
		TokenRefreshSkew: env.GetDuration("TOKEN_REFRESH_SKEW_SECONDS", 300, time.Second),
		TokenCooldown:    env.GetDuration("TOKEN_COOLDOWN_SECONDS", 60, time.Second),

		// KMS
		KMSKeyURI: env.GetString("KMS_KEY_URI", ""),

		// Quote workflow
		RespondRequireToken: env.GetBool("RESPOND_REQUIRE_TOKEN", false),

		// PDF artifacts
		QuotePageURL:      env.GetString("QUOTE_PAGE_URL", ""),
		RendererURL:       env.GetString("RENDERER_URL", ""),
		RendererTimeout:   env.GetDuration("RENDERER_TIMEOUT_SECONDS", 60, time.Second),
		PDFOnAccept:       env.GetBool("PDF_ON_ACCEPT", true),
		ArtifactWorkers:   env.GetInt("ARTIFACT_WORKERS", 2),
		ArtifactQueueSize: env.GetInt("ARTIFACT_QUEUE_SIZE", 64),

		// Rate Limiting (public endpoints, IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "quotelink"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}

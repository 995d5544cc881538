package internal

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	Backend  BackendConfig
	Session  SessionConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
	Sentry   SentryConfig
}

// BackendConfig locates the bakery API.
type BackendConfig struct {
	// URL is the backend origin without the /api prefix (e.g., "http://localhost:8001").
	URL string

	// RequestTimeout bounds every backend request.
	RequestTimeout time.Duration
}

// SessionConfig controls visitor sessions.
type SessionConfig struct {
	// IdleTimeout expires sessions nobody has used for this long.
	IdleTimeout time.Duration

	// ReviewPageSize is how many reviews each page fetches.
	ReviewPageSize int

	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool
}

// HTTPConfig holds storefront server settings.
type HTTPConfig struct {
	// AllowedOrigins lists origins allowed by CORS. "*" allows any.
	AllowedOrigins []string
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Namespace string
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN         string
	Enabled     bool
	Environment string
	Release     string
	SampleRate  float64
	Debug       bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		Backend: BackendConfig{
			URL:            getEnv("BACKEND_URL", "http://localhost:8001"),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			IdleTimeout:    getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
			ReviewPageSize: int(getEnvInt("REVIEW_PAGE_SIZE", 4)),
			CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Metrics: MetricsConfig{
			Namespace: getEnv("METRICS_NAMESPACE", "sweethome"),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Enabled:     getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     getEnv("SENTRY_RELEASE", ""),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			Debug:       getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	if _, ok := ParseLogLevel(cfg.LogLevel); !ok {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	u, err := url.Parse(cfg.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", cfg.Backend.URL)
	}

	if cfg.Backend.RequestTimeout <= 0 {
		slog.Default().Warn("Invalid request timeout. Using default: 10s", slog.Duration("value", cfg.Backend.RequestTimeout))
		cfg.Backend.RequestTimeout = 10 * time.Second
	}

	if cfg.Session.ReviewPageSize <= 0 {
		slog.Default().Warn("Invalid review page size. Using default: 4", slog.Int("value", cfg.Session.ReviewPageSize))
		cfg.Session.ReviewPageSize = 4
	}

	if cfg.Env == "prod" && !cfg.Session.CookieSecure {
		slog.Default().Warn("COOKIE_SECURE is false in production; session cookies will be sent over plain HTTP")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	// DSN is the Sentry Data Source Name (required if Enabled is true)
	DSN string

	// Enabled controls whether Sentry is active
	Enabled bool

	// Environment identifies the deployment environment (dev, prod)
	Environment string

	// Release is the application version/release identifier
	Release string

	// SampleRate controls the percentage of errors to capture (0.0 to 1.0)
	// Default: 1.0
	SampleRate float64

	// Debug enables Sentry SDK debug logging
	Debug bool
}

// ErrorReporter sends errors that reach the storefront's UI boundary to Sentry.
// A disabled or nil reporter drops everything.
type ErrorReporter struct {
	hub *sentry.Hub
}

// NewErrorReporter initializes Sentry from cfg.
// The returned cleanup flushes buffered events and should run on shutdown.
func NewErrorReporter(cfg SentryConfig, logger *slog.Logger) (*ErrorReporter, func(), error) {
	if !cfg.Enabled {
		logger.Info("Sentry disabled (SENTRY_ENABLED=false or DSN not configured)")
		return &ErrorReporter{}, func() {}, nil
	}

	if cfg.DSN == "" {
		logger.Warn("Sentry DSN not configured, disabling error tracking")
		return &ErrorReporter{}, func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		SampleRate:  sampleRate,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	logger.Info("Sentry initialized",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
	)

	hub := sentry.NewHub(client, sentry.NewScope())
	cleanup := func() {
		hub.Flush(2 * time.Second)
	}

	return &ErrorReporter{hub: hub}, cleanup, nil
}

// NewErrorReporterWithHub wraps an existing hub, for tests and embedding.
func NewErrorReporterWithHub(hub *sentry.Hub) *ErrorReporter {
	return &ErrorReporter{hub: hub}
}

// Enabled reports whether errors are being sent anywhere.
func (r *ErrorReporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// Capture reports err with the session and operation as tags.
// Safe to call when Sentry is disabled.
func (r *ErrorReporter) Capture(ctx context.Context, err error, tags map[string]string) {
	if !r.Enabled() || err == nil {
		return
	}

	hub := r.hub
	if ctxHub := sentry.GetHubFromContext(ctx); ctxHub != nil {
		hub = ctxHub
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range tags {
			scope.SetTag(key, value)
		}
		hub.CaptureException(err)
	})
}

// Breadcrumb records a step that will be attached to the next captured error.
func (r *ErrorReporter) Breadcrumb(category, message string, data map[string]interface{}) {
	if !r.Enabled() {
		return
	}

	r.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Data:     data,
		Level:    sentry.LevelInfo,
	}, nil)
}

// Middleware returns an HTTP middleware that attaches a per-request hub carrying
// the request, and reports panics before re-raising them for the recovery middleware.
func (r *ErrorReporter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.Enabled() {
			next.ServeHTTP(w, req)
			return
		}

		hub := r.hub.Clone()
		hub.Scope().SetRequest(req)
		ctx := sentry.SetHubOnContext(req.Context(), hub)

		defer func() {
			if err := recover(); err != nil {
				hub.RecoverWithContext(ctx, err)
				hub.Flush(2 * time.Second)
				panic(err)
			}
		}()

		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

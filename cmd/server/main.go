package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/sweethome/internal"
	"github.com/dukerupert/sweethome/internal/bakeryapi"
	"github.com/dukerupert/sweethome/internal/cookie"
	"github.com/dukerupert/sweethome/internal/handler/storefront"
	"github.com/dukerupert/sweethome/internal/middleware"
	"github.com/dukerupert/sweethome/internal/router"
	"github.com/dukerupert/sweethome/internal/routes"
	"github.com/dukerupert/sweethome/internal/session"
	"github.com/dukerupert/sweethome/internal/telemetry"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 15 * time.Second
)

// app is the assembled storefront: its HTTP handler plus the pieces run
// needs to drive and shut down.
type app struct {
	handler http.Handler
	store   *session.Store
	cleanup func()
}

// newApp wires config into the storefront server. Collectors register on reg.
func newApp(cfg *internal.Config, logger *slog.Logger, reg *prometheus.Registry) (*app, error) {
	storefrontMetrics := telemetry.NewStorefrontMetrics(reg, cfg.Metrics.Namespace)
	httpMetrics := middleware.NewMetrics(reg, reg, cfg.Metrics.Namespace)

	reporter, cleanup, err := telemetry.NewErrorReporter(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("error reporter initialization failed: %w", err)
	}

	client, err := bakeryapi.New(cfg.Backend.URL,
		bakeryapi.WithTimeout(cfg.Backend.RequestTimeout),
		bakeryapi.WithLogger(logger),
		bakeryapi.WithMetrics(storefrontMetrics),
	)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("backend client initialization failed: %w", err)
	}

	store := session.NewStore(cfg.Session.IdleTimeout, func(id uuid.UUID) *session.Session {
		return session.New(id, client,
			session.WithLogger(logger),
			session.WithNotifier(session.LogNotifier{Logger: logger}),
			session.WithReporter(reporter),
			session.WithMetrics(storefrontMetrics),
			session.WithReviewPageSize(cfg.Session.ReviewPageSize),
			session.WithRequestTimeout(cfg.Backend.RequestTimeout),
		)
	}, storefrontMetrics)

	cookies := cookie.NewConfig("", cfg.Session.CookieSecure)
	cookieMaxAge := int(cfg.Session.IdleTimeout.Seconds())

	r := router.New(
		middleware.RequestID,
		router.Recovery(logger),
		reporter.Middleware,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
		httpMetrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.Session.CookieSecure)),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
	)

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		Handler:  storefront.NewHandler(),
		Health:   storefront.NewHealthHandler(client, cfg.Backend.RequestTimeout),
		Metrics:  httpMetrics.Handler(),
		Sessions: middleware.Sessions(store, cookies, cookieMaxAge),
	})

	// CORS wraps the whole router so preflight requests are answered before
	// method-scoped route matching.
	return &app{
		handler: router.CORS(cfg.HTTP.AllowedOrigins)(r),
		store:   store,
		cleanup: cleanup,
	}, nil
}

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := newApp(cfg, logger, reg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.store.SweepEvery(ctx, sweepInterval, func(removed int) {
		if removed > 0 {
			logger.Debug("expired sessions swept", "removed", removed, "active", a.store.Len())
		}
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Checkout waits on the backend, so writes get the backend timeout plus headroom.
		WriteTimeout: cfg.Backend.RequestTimeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server",
			"address", srv.Addr,
			"backend", cfg.Backend.URL,
			"env", cfg.Env,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// Command fakebakery serves the in-memory bakery API on FAKE_BAKERY_PORT
// (default 8001) so the storefront can run without the real backend.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dukerupert/sweethome/internal"
	"github.com/dukerupert/sweethome/internal/bakeryapi/bakeryapitest"
	"github.com/dukerupert/sweethome/internal/router"
)

func run() error {
	// Only env, port and log level matter here
	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}

	port := os.Getenv("FAKE_BAKERY_PORT")
	if port == "" {
		port = "8001"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logger := internal.NewLogger(os.Stdout, env, logLevel).With("component", "fakebakery")

	backend := bakeryapitest.NewBackend()
	h := router.Recovery(logger)(router.Logger(logger)(backend))

	addr := fmt.Sprintf(":%s", port)
	logger.Info("Starting fake bakery API", "address", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

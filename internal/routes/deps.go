package routes

import (
	"net/http"

	"github.com/dukerupert/sweethome/internal/handler/storefront"
	"github.com/dukerupert/sweethome/internal/router"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Storefront API (snapshot, cart, delivery, checkout, reviews, notices)
	Handler *storefront.Handler

	// Liveness and readiness probes
	Health *storefront.HealthHandler

	// Prometheus exposition
	Metrics http.Handler

	// Sessions resolves the visitor's session; applied to /api routes only
	Sessions router.Middleware
}

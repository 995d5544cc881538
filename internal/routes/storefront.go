package routes

import (
	"net/http"

	"github.com/dukerupert/sweethome/internal/router"
)

// RegisterStorefrontRoutes registers the storefront API.
// Probes and metrics are served without a session; everything under /api
// runs in the visitor's session.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Operations
	r.Get("/healthz", deps.Health.Live)
	r.Get("/readyz", deps.Health.Ready)
	r.Handle(http.MethodGet, "/metrics", deps.Metrics)

	r.Route("/api", func(api *router.Router) {
		// Storefront data
		api.Get("/storefront", deps.Handler.Show)
		api.Post("/storefront/reload", deps.Handler.Reload)
		api.Get("/notices", deps.Handler.Notices)

		// Cart and delivery
		api.Get("/cart", deps.Handler.Cart)
		api.Post("/cart/items", deps.Handler.AddItem)
		api.Put("/cart/items/{id}", deps.Handler.UpdateItem)
		api.Delete("/cart/items/{id}", deps.Handler.RemoveItem)
		api.Put("/delivery", deps.Handler.SelectDelivery)

		// Orders
		api.Post("/checkout", deps.Handler.Checkout)
		api.Get("/orders/{id}", deps.Handler.OrderStatus)

		// Reviews
		api.Get("/reviews/more", deps.Handler.MoreReviews)
		api.Post("/reviews", deps.Handler.SubmitReview)
	}, deps.Sessions)
}

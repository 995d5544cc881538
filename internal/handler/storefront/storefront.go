// Package storefront serves the bakery storefront's JSON API. Every handler
// works on the visitor's session, which the session middleware puts in the
// request context.
package storefront

import (
	"net/http"

	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/handler"
	"github.com/dukerupert/sweethome/internal/middleware"
	"github.com/dukerupert/sweethome/internal/session"
)

// Handler handles the storefront API routes.
type Handler struct{}

// NewHandler creates a storefront handler.
func NewHandler() *Handler {
	return &Handler{}
}

// currentSession returns the request's session or writes an error.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s := middleware.GetSession(r.Context())
	if s == nil {
		handler.ErrorResponse(w, r, domain.Internal(nil, "storefront.session", "no session in request context"))
		return nil, false
	}
	return s, true
}

// Show handles GET /api/storefront.
// The first request of a session loads the bakery's data; a failed load is
// reported in the view's state and is only retried by Reload.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := s.EnsureLoaded(r.Context()); err != nil {
		middleware.GetLogger(r.Context()).Warn("storefront load failed", "error", err)
	}

	handler.JSON(w, http.StatusOK, newStorefrontView(s.Snapshot()))
}

// Reload handles POST /api/storefront/reload.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := s.LoadInitialData(r.Context()); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, newStorefrontView(s.Snapshot()))
}

// Notices handles GET /api/notices. Draining empties the session's mailbox.
func (h *Handler) Notices(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	handler.JSON(w, http.StatusOK, map[string]any{
		"notices": s.Mailbox().Drain(),
	})
}

// Package router wraps http.ServeMux with method-scoped routes, path-prefix
// groups and middleware chains.
package router

import (
	"net/http"
	"slices"
	"strings"
)

// Router wraps http.ServeMux with middleware chaining
type Router struct {
	mux    *http.ServeMux
	chain  []Middleware
	prefix string

	// unmatched serves 404 and 405 responses through the global chain, so
	// requests that hit no route are still logged, counted and tagged.
	unmatched http.Handler
}

// Middleware is a function that wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// New creates a new Router with optional global middleware
func New(middleware ...Middleware) *Router {
	r := &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
	}
	r.unmatched = r.wrap(r.mux, nil)
	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if _, pattern := r.mux.Handler(req); pattern == "" {
		r.unmatched.ServeHTTP(w, req)
		return
	}
	r.mux.ServeHTTP(w, req)
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.handle(http.MethodGet, pattern, handler, middleware)
}

// Post registers a POST route
func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.handle(http.MethodPost, pattern, handler, middleware)
}

// Put registers a PUT route
func (r *Router) Put(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.handle(http.MethodPut, pattern, handler, middleware)
}

// Delete registers a DELETE route
func (r *Router) Delete(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.handle(http.MethodDelete, pattern, handler, middleware)
}

// Handle registers a route with explicit method
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	r.mux.Handle(method+" "+r.prefix+pattern, r.wrap(handler, middleware))
}

// Mount registers a handler for every method on pattern, e.g. a metrics endpoint.
func (r *Router) Mount(pattern string, handler http.Handler, middleware ...Middleware) {
	r.mux.Handle(r.prefix+pattern, r.wrap(handler, middleware))
}

func (r *Router) handle(method, pattern string, handler http.HandlerFunc, middleware []Middleware) {
	r.Handle(method, pattern, handler, middleware...)
}

// wrap applies middleware to a handler in reverse order so they execute in the order defined
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	combined := append(slices.Clone(r.chain), middleware...)
	slices.Reverse(combined)

	result := handler
	for _, m := range combined {
		result = m(result)
	}

	return result
}

// Group creates a sub-router with additional middleware
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:       r.mux,
		chain:     append(slices.Clone(r.chain), middleware...),
		prefix:    r.prefix,
		unmatched: r.unmatched,
	}
}

// Route registers the routes added by fn under prefix, behind middleware.
//
//	r.Route("/api", func(api *router.Router) {
//		api.Get("/cart", h.Cart) // GET /api/cart
//	}, sessions)
func (r *Router) Route(prefix string, fn func(r *Router), middleware ...Middleware) {
	sub := r.Group(middleware...)
	sub.prefix = r.prefix + strings.TrimSuffix(prefix, "/")
	fn(sub)
}

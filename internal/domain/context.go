// Package domain provides the bakery storefront's business types, error model
// and context helpers.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// sessionIDContextKey stores the storefront session ID.
	sessionIDContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// --- Session Context Helpers ---

// NewContextWithSessionID returns a new context with the storefront session ID attached.
func NewContextWithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, id)
}

// SessionIDFromContext retrieves the session ID from context.
// Returns uuid.Nil if no session is present.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(sessionIDContextKey).(uuid.UUID)
	return id
}

// RequireSessionID retrieves the session ID from context, panicking if not present.
// Handlers mounted behind the session middleware may rely on it.
func RequireSessionID(ctx context.Context) uuid.UUID {
	id := SessionIDFromContext(ctx)
	if id == uuid.Nil {
		panic("session_id required in context but not found")
	}
	return id
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

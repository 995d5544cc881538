package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSessionContext(t *testing.T) {
	t.Run("SessionIDFromContext returns uuid.Nil when unset", func(t *testing.T) {
		if id := SessionIDFromContext(context.Background()); id != uuid.Nil {
			t.Errorf("expected uuid.Nil, got %v", id)
		}
	})

	t.Run("SessionIDFromContext returns ID when set", func(t *testing.T) {
		expected := uuid.New()
		ctx := NewContextWithSessionID(context.Background(), expected)

		if id := SessionIDFromContext(ctx); id != expected {
			t.Errorf("expected %v, got %v", expected, id)
		}
	})

	t.Run("RequireSessionID panics when unset", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic, got none")
			}
		}()
		RequireSessionID(context.Background())
	})
}

func TestRequestIDContext(t *testing.T) {
	ctx := NewContextWithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("expected %q, got %q", "req-123", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
}

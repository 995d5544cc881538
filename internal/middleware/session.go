package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/sweethome/internal/cookie"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/session"
	"github.com/google/uuid"
)

// SessionContextKey is the context key for the visitor's storefront session
const SessionContextKey contextKey = "session"

// SessionResolver is the subset of session.Store the middleware needs.
type SessionResolver interface {
	Get(id uuid.UUID) (*session.Session, bool)
	Create() *session.Session
}

// Sessions resolves the visitor's session from the session cookie, creating
// a new one when the cookie is missing, malformed, or names an expired
// session. A stale cookie is cleared before its replacement is set. The
// cookie is re-issued on every request so its lifetime follows the store's
// sliding idle timeout. The session ID is added to the context and to the
// request logger. Place it after WithRequestLogger.
func Sessions(store SessionResolver, cookies *cookie.Config, maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := cookie.Get(r, cookie.SessionCookieName)
			s := lookupSession(store, raw)
			if s == nil {
				if raw != "" {
					cookies.ClearSession(w, cookie.SessionCookieName)
				}
				s = store.Create()
				GetLogger(r.Context()).Debug("session created", "session_id", s.ID(), "replaced_cookie", raw != "")
			}
			cookies.SetSession(w, cookie.SessionCookieName, s.ID().String(), maxAge)

			ctx := domain.NewContextWithSessionID(r.Context(), s.ID())
			ctx = context.WithValue(ctx, SessionContextKey, s)
			ctx = WithLogger(ctx, GetLogger(ctx).With(slog.String("session_id", s.ID().String())))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func lookupSession(store SessionResolver, raw string) *session.Session {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	s, ok := store.Get(id)
	if !ok {
		return nil
	}
	return s
}

// GetSession retrieves the storefront session from the context.
// Returns nil if the Sessions middleware did not run.
func GetSession(ctx context.Context) *session.Session {
	s, _ := ctx.Value(SessionContextKey).(*session.Session)
	return s
}

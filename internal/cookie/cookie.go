// Package cookie provides the storefront's session cookie helpers.
// All session cookies should go through this package so that the
// attributes stay consistent between setting and clearing.
package cookie

import "net/http"

// Config holds cookie configuration.
type Config struct {
	// Domain scopes the cookie. Empty means host-only, which is the usual
	// choice when the storefront API and the web app share a host.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool

	// SameSite defaults to Lax when zero.
	SameSite http.SameSite
}

// NewConfig creates a new cookie configuration.
//
// Example:
//
//	cfg := cookie.NewConfig("", true)  // production, host-only
//	cfg := cookie.NewConfig("", false) // development over plain HTTP
func NewConfig(domain string, secure bool) *Config {
	return &Config{
		Domain: domain,
		Secure: secure,
	}
}

func (c *Config) sameSite() http.SameSite {
	if c.SameSite == 0 {
		return http.SameSiteLaxMode
	}
	return c.SameSite
}

// SetSession sets an HttpOnly session cookie on path "/".
// maxAge <= 0 produces a browser-session cookie.
func (c *Config) SetSession(w http.ResponseWriter, name, value string, maxAge int) {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	}
	if maxAge > 0 {
		ck.MaxAge = maxAge
	}
	http.SetCookie(w, ck)
}

// ClearSession removes a session cookie by setting MaxAge to -1.
// Domain and path must match the original cookie.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SessionCookieName identifies the shopper's storefront session.
const SessionCookieName = "sweethome_session"

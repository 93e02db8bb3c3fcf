package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"time"
)

const (
	// ClientCookieName carries the anonymous per-device client ID.
	ClientCookieName = "bdask_client_id"
	// ClientHeaderName lets non-browser clients supply their own ID.
	ClientHeaderName   = "X-BdAsk-Client-ID"
	clientCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const clientIDKey contextKey = iota

var clientIDPattern = regexp.MustCompile(`^client_[a-f0-9]{32}$`)

// ClientIDFromContext extracts the client ID from the request context.
func ClientIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientIDKey).(string); ok {
		return v
	}
	return ""
}

// NewClientID returns a fresh random client ID.
func NewClientID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate client id: %w", err)
	}
	return "client_" + hex.EncodeToString(buf), nil
}

// IsValidClientID reports whether id has the shape NewClientID produces.
func IsValidClientID(id string) bool {
	return clientIDPattern.MatchString(id)
}

func clientIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(ClientHeaderName); IsValidClientID(id) {
		return id
	}
	if c, err := r.Cookie(ClientCookieName); err == nil && IsValidClientID(c.Value) {
		return c.Value
	}
	return ""
}

// Identity assigns every caller an anonymous client ID, persisted in a
// cookie, and stores it in the request context. The ID keys rate limiting
// and request logs; sessions themselves are not scoped to it.
func Identity(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := clientIDFromRequest(r)
			if id == "" {
				var err error
				id, err = NewClientID()
				if err != nil {
					http.Error(w, `{"detail":"failed to establish client identity"}`, http.StatusInternalServerError)
					return
				}
			}

			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(clientCookieMaxAge.Seconds()),
				Expires:  time.Now().Add(clientCookieMaxAge),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   !isDev,
			})

			ctx := context.WithValue(r.Context(), clientIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IPFromRequest returns a normalized remote IP.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

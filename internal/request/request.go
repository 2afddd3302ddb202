package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/brainindex/brainindex-api/internal/models"
)

type contextKey string

const profileContextKey contextKey = "profile"

// ProfileContextKey returns the context key used for the profile. Exposed for tests that inject non-profile values.
func ProfileContextKey() contextKey { return profileContextKey }

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithProfile returns a context with the authenticated profile attached.
func WithProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, profileContextKey, profile)
}

// ProfileFromContext returns the profile from the request context, or nil if missing or wrong type.
func ProfileFromContext(r *http.Request) *models.Profile {
	p, _ := r.Context().Value(profileContextKey).(*models.Profile)
	return p
}

package request

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/brainindex/brainindex-api/internal/models"
)

func TestClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		wantIP  string
	}{
		{"x-forwarded-for", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "", "1.2.3.4"},
		{"x-forwarded-for first", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8 "}, "", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "9.9.9.9"}, "", "9.9.9.9"},
		{"remote addr", nil, "10.0.0.1:12345", "10.0.0.1:12345"},
		{"xff over xri", map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "9.9.9.9"}, "", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}
			got := ClientIP(r)
			if got != tt.wantIP {
				t.Errorf("ClientIP() = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestProfileFromContext(t *testing.T) {
	t.Parallel()

	profile := &models.Profile{ID: uuid.New(), Email: "user@example.com"}

	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(WithProfile(r.Context(), profile))

	got := ProfileFromContext(r)
	if got == nil || got.ID != profile.ID {
		t.Errorf("ProfileFromContext() = %+v, want %+v", got, profile)
	}
}

func TestProfileFromContext_Missing(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	if got := ProfileFromContext(r); got != nil {
		t.Errorf("expected nil profile, got %+v", got)
	}
}

func TestProfileFromContext_WrongType(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	ctx := context.WithValue(r.Context(), ProfileContextKey(), "not a profile")
	r = r.WithContext(ctx)

	if got := ProfileFromContext(r); got != nil {
		t.Errorf("expected nil profile for wrong type, got %+v", got)
	}
}

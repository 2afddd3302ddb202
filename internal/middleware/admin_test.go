package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
)

type fakeRoleRepo struct {
	admins map[uuid.UUID]bool
	err    error
}

func (f *fakeRoleRepo) HasRole(ctx context.Context, userID uuid.UUID, role models.AppRole) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if role != models.RoleAdmin {
		return false, nil
	}
	return f.admins[userID], nil
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name       string
		profile    *models.Profile
		repo       *fakeRoleRepo
		wantStatus int
	}{
		{
			name:       "no profile",
			profile:    nil,
			repo:       &fakeRoleRepo{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "admin allowed",
			profile:    &models.Profile{ID: adminID},
			repo:       &fakeRoleRepo{admins: map[uuid.UUID]bool{adminID: true}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-admin forbidden",
			profile:    &models.Profile{ID: userID},
			repo:       &fakeRoleRepo{admins: map[uuid.UUID]bool{adminID: true}},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "role check error",
			profile:    &models.Profile{ID: userID},
			repo:       &fakeRoleRepo{err: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireAdmin(tt.repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/api/v1/admin/stats", nil)
			if tt.profile != nil {
				req = req.WithContext(request.WithProfile(req.Context(), tt.profile))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
)

// RequireAdmin rejects requests from callers without the admin role.
// Must run after Auth.
func RequireAdmin(roleRepo database.UserRoleRepositoryInterface, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := request.ProfileFromContext(r)
			if profile == nil {
				respondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			isAdmin, err := roleRepo.HasRole(r.Context(), profile.ID, models.RoleAdmin)
			if err != nil {
				logger.Error("role_check_failed",
					zap.String("user_id", profile.ID.String()),
					zap.Error(err),
				)
				respondError(w, http.StatusInternalServerError, "Failed to check permissions")
				return
			}
			if !isAdmin {
				respondError(w, http.StatusForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/request"
)

// InteractionRecorder persists a user's last API interaction time.
type InteractionRecorder interface {
	UpdateLastInteraction(ctx context.Context, userID uuid.UUID) error
}

// ActivityTracking records the last API interaction for authenticated users.
// Tracking failures never fail the request.
func ActivityTracking(activityRepo InteractionRecorder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := request.ProfileFromContext(r)
			if profile != nil {
				userID := profile.ID
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()

					if err := activityRepo.UpdateLastInteraction(ctx, userID); err != nil {
						logger.Warn("activity_update_failed",
							zap.String("user_id", userID.String()),
							zap.Error(err),
						)
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}

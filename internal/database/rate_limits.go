package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RateLimitRepository enforces per-user, per-action fixed-window rate limits.
// The check-and-increment is a single conditional upsert so concurrent requests
// from the same user cannot both claim the last slot.
type RateLimitRepository struct {
	db *DB
}

// NewRateLimitRepository creates a new rate limit repository
func NewRateLimitRepository(db *DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// CheckAndIncrement atomically increments the counter for (user, action) in the
// current fixed window and reports whether the action is allowed. The counter
// is incremented even for denied attempts; allowance is count <= maxRequests.
func (r *RateLimitRepository) CheckAndIncrement(ctx context.Context, userID uuid.UUID, action string, maxRequests int, window time.Duration) (bool, error) {
	if maxRequests <= 0 {
		return false, fmt.Errorf("maxRequests must be positive")
	}
	if window <= 0 {
		return false, fmt.Errorf("window must be positive")
	}

	windowSeconds := int64(window / time.Second)

	// window_start is the window boundary computed inside the database so all
	// app instances agree on it regardless of clock skew.
	var count int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rate_limits (id, user_id, action, window_start, count, created_at)
		VALUES ($1, $2, $3, to_timestamp(floor(extract(epoch FROM now()) / $4) * $4), 1, now())
		ON CONFLICT (user_id, action, window_start) DO UPDATE SET
			count = rate_limits.count + 1
		RETURNING count
	`, uuid.New(), userID, action, windowSeconds).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	return count <= maxRequests, nil
}

// PurgeOldWindows deletes counters for windows that ended more than retention ago
func (r *RateLimitRepository) PurgeOldWindows(ctx context.Context, retention time.Duration) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_limits WHERE window_start < $1`, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to purge rate limit windows: %w", err)
	}
	return result.RowsAffected()
}

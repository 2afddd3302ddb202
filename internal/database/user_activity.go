package database

import (
	"context"
	"fmt"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// UserActivityRepository tracks last-seen timestamps per user
type UserActivityRepository struct {
	db *DB
}

// NewUserActivityRepository creates a new user activity repository
func NewUserActivityRepository(db *DB) *UserActivityRepository {
	return &UserActivityRepository{db: db}
}

// UpdateLastInteraction records the current time as the user's last API interaction
func (r *UserActivityRepository) UpdateLastInteraction(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_activity (user_id, last_interaction, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			last_interaction = EXCLUDED.last_interaction,
			updated_at = EXCLUDED.updated_at
	`, userID, now, now)
	if err != nil {
		return fmt.Errorf("failed to update user activity: %w", err)
	}
	return nil
}

// GetRecent returns the most recently active users, newest first
func (r *UserActivityRepository) GetRecent(ctx context.Context, limit int) ([]*models.UserActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, last_interaction, updated_at
		FROM user_activity
		ORDER BY last_interaction DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query user activity: %w", err)
	}
	defer rows.Close()

	var activities []*models.UserActivity
	for rows.Next() {
		activity := &models.UserActivity{}
		if err := rows.Scan(&activity.UserID, &activity.LastInteraction, &activity.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user activity: %w", err)
	}

	return activities, nil
}

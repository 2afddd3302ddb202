package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// SubscriptionRepository handles subscription database operations
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetByUserID retrieves a user's subscription. A user without a row is treated
// as an active free plan.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var nextBilling sql.NullTime

	query := `
		SELECT id, user_id, plan, status, next_billing_date, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Plan,
		&sub.Status,
		&nextBilling,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return &models.Subscription{
			UserID: userID,
			Plan:   models.PlanFree,
			Status: models.SubscriptionActive,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if nextBilling.Valid {
		sub.NextBillingDate = &nextBilling.Time
	}

	return sub, nil
}

// Upsert creates or replaces a user's subscription
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	now := time.Now()
	query := `
		INSERT INTO subscriptions (id, user_id, plan, status, next_billing_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			next_billing_date = EXCLUDED.next_billing_date,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		sub.ID,
		sub.UserID,
		sub.Plan,
		sub.Status,
		sub.NextBillingDate,
		now,
		now,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

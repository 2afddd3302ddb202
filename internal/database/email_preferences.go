package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// EmailPreferenceRepository handles email preference database operations
type EmailPreferenceRepository struct {
	db *DB
}

// NewEmailPreferenceRepository creates a new email preference repository
func NewEmailPreferenceRepository(db *DB) *EmailPreferenceRepository {
	return &EmailPreferenceRepository{db: db}
}

// GetByUserID retrieves a user's email preferences. When no row exists the
// defaults are returned (analysis-complete and weekly-summary on); rows are
// only created when the user explicitly saves settings.
func (r *EmailPreferenceRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.EmailPreference, error) {
	pref := &models.EmailPreference{}
	query := `
		SELECT id, user_id, analysis_complete, weekly_summary, competitor_updates, marketing_emails, created_at, updated_at
		FROM email_preferences
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&pref.ID,
		&pref.UserID,
		&pref.AnalysisComplete,
		&pref.WeeklySummary,
		&pref.CompetitorUpdates,
		&pref.MarketingEmails,
		&pref.CreatedAt,
		&pref.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return models.DefaultEmailPreference(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email preferences: %w", err)
	}

	return pref, nil
}

// Upsert creates or replaces a user's email preferences
func (r *EmailPreferenceRepository) Upsert(ctx context.Context, pref *models.EmailPreference) error {
	if pref.ID == uuid.Nil {
		pref.ID = uuid.New()
	}

	now := time.Now()
	query := `
		INSERT INTO email_preferences (id, user_id, analysis_complete, weekly_summary, competitor_updates, marketing_emails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			analysis_complete = EXCLUDED.analysis_complete,
			weekly_summary = EXCLUDED.weekly_summary,
			competitor_updates = EXCLUDED.competitor_updates,
			marketing_emails = EXCLUDED.marketing_emails,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		pref.ID,
		pref.UserID,
		pref.AnalysisComplete,
		pref.WeeklySummary,
		pref.CompetitorUpdates,
		pref.MarketingEmails,
		now,
		now,
	).Scan(&pref.ID, &pref.CreatedAt, &pref.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert email preferences: %w", err)
	}

	return nil
}

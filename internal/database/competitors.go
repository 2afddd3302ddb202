package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// CompetitorRepository handles competitor database operations
type CompetitorRepository struct {
	db *DB
}

// NewCompetitorRepository creates a new competitor repository
func NewCompetitorRepository(db *DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

// Create creates a new competitor entry
func (r *CompetitorRepository) Create(ctx context.Context, competitor *models.Competitor) error {
	query := `
		INSERT INTO competitors (id, user_id, competitor_name, your_score, their_score, last_updated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		competitor.ID,
		competitor.UserID,
		competitor.CompetitorName,
		competitor.YourScore,
		competitor.TheirScore,
		now,
		now,
	).Scan(&competitor.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create competitor: %w", err)
	}
	competitor.LastUpdated = now

	return nil
}

// GetByID retrieves a competitor by ID
func (r *CompetitorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Competitor, error) {
	competitor := &models.Competitor{}
	var yourScore, theirScore sql.NullInt64

	query := `
		SELECT id, user_id, competitor_name, your_score, their_score, last_updated, created_at
		FROM competitors
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&competitor.ID,
		&competitor.UserID,
		&competitor.CompetitorName,
		&yourScore,
		&theirScore,
		&competitor.LastUpdated,
		&competitor.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("competitor not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get competitor: %w", err)
	}

	if yourScore.Valid {
		score := int(yourScore.Int64)
		competitor.YourScore = &score
	}
	if theirScore.Valid {
		score := int(theirScore.Int64)
		competitor.TheirScore = &score
	}

	return competitor, nil
}

// GetByUserID retrieves all competitors for a user
func (r *CompetitorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Competitor, error) {
	query := `
		SELECT id, user_id, competitor_name, your_score, their_score, last_updated, created_at
		FROM competitors
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitors: %w", err)
	}
	defer rows.Close()

	var competitors []*models.Competitor
	for rows.Next() {
		competitor := &models.Competitor{}
		var yourScore, theirScore sql.NullInt64

		err := rows.Scan(
			&competitor.ID,
			&competitor.UserID,
			&competitor.CompetitorName,
			&yourScore,
			&theirScore,
			&competitor.LastUpdated,
			&competitor.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}

		if yourScore.Valid {
			score := int(yourScore.Int64)
			competitor.YourScore = &score
		}
		if theirScore.Valid {
			score := int(theirScore.Int64)
			competitor.TheirScore = &score
		}

		competitors = append(competitors, competitor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate competitors: %w", err)
	}

	return competitors, nil
}

// UpdateScores updates the tracked scores for a competitor
func (r *CompetitorRepository) UpdateScores(ctx context.Context, id uuid.UUID, yourScore, theirScore *int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE competitors
		SET your_score = $2, their_score = $3, last_updated = $4
		WHERE id = $1
	`, id, yourScore, theirScore, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update competitor scores: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("competitor not found")
	}

	return nil
}

// Delete removes a competitor by ID
func (r *CompetitorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM competitors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete competitor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("competitor not found")
	}

	return nil
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// AnalysisRepository handles analysis record database operations
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create inserts a completed analysis for a user. Records are immutable after
// creation; there is no Update.
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	query := `
		INSERT INTO analyses (id, user_id, brand_name, overall_score, ai_systems, findings, recommendations, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	aiSystemsJSON, err := json.Marshal(analysis.AISystems)
	if err != nil {
		return fmt.Errorf("failed to marshal ai_systems: %w", err)
	}
	findingsJSON, err := json.Marshal(analysis.Findings)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	recommendationsJSON, err := json.Marshal(analysis.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.BrandName,
		analysis.OverallScore,
		aiSystemsJSON,
		findingsJSON,
		recommendationsJSON,
		analysis.Status,
		time.Now(),
	).Scan(&analysis.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	return nil
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	query := `
		SELECT id, user_id, brand_name, overall_score, ai_systems, findings, recommendations, status, created_at
		FROM analyses
		WHERE id = $1
	`

	analysis, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return analysis, nil
}

// GetByUserIDPaginated retrieves analyses for a user, newest first
func (r *AnalysisRepository) GetByUserIDPaginated(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Analysis, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analyses WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	query := `
		SELECT id, user_id, brand_name, overall_score, ai_systems, findings, recommendations, status, created_at
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	analyses, err := collectAnalyses(rows)
	if err != nil {
		return nil, 0, err
	}

	return analyses, total, nil
}

// GetAllPaginated retrieves analyses across all users, newest first. Admin only;
// callers are responsible for the role check.
func (r *AnalysisRepository) GetAllPaginated(ctx context.Context, page, pageSize int) ([]*models.Analysis, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	query := `
		SELECT id, user_id, brand_name, overall_score, ai_systems, findings, recommendations, status, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	analyses, err := collectAnalyses(rows)
	if err != nil {
		return nil, 0, err
	}

	return analyses, total, nil
}

// GetCreatedSince retrieves analyses created at or after the given time across
// all users. Used to build weekly summaries.
func (r *AnalysisRepository) GetCreatedSince(ctx context.Context, since time.Time) ([]*models.Analysis, error) {
	query := `
		SELECT id, user_id, brand_name, overall_score, ai_systems, findings, recommendations, status, created_at
		FROM analyses
		WHERE created_at >= $1
		ORDER BY user_id, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer rows.Close()

	return collectAnalyses(rows)
}

// GetByUserIDSince retrieves one user's analyses created at or after the given
// time, newest first. Used when rendering that user's weekly summary.
func (r *AnalysisRepository) GetByUserIDSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Analysis, error) {
	query := `
		SELECT id, user_id, brand_name, overall_score, ai_systems, findings, recommendations, status, created_at
		FROM analyses
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses for user: %w", err)
	}
	defer rows.Close()

	return collectAnalyses(rows)
}

// Delete removes an analysis by ID
func (r *AnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}

	return nil
}

// CountAll returns the total number of stored analyses
func (r *AnalysisRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	analysis := &models.Analysis{}
	var overallScore sql.NullInt64
	var aiSystemsJSON, findingsJSON, recommendationsJSON []byte

	err := row.Scan(
		&analysis.ID,
		&analysis.UserID,
		&analysis.BrandName,
		&overallScore,
		&aiSystemsJSON,
		&findingsJSON,
		&recommendationsJSON,
		&analysis.Status,
		&analysis.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if overallScore.Valid {
		score := int(overallScore.Int64)
		analysis.OverallScore = &score
	}
	if err := json.Unmarshal(aiSystemsJSON, &analysis.AISystems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ai_systems: %w", err)
	}
	if err := json.Unmarshal(findingsJSON, &analysis.Findings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal findings: %w", err)
	}
	if err := json.Unmarshal(recommendationsJSON, &analysis.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}

	return analysis, nil
}

func collectAnalyses(rows *sql.Rows) ([]*models.Analysis, error) {
	var analyses []*models.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return analyses, nil
}

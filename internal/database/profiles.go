package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, provider_id, full_name, company, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.ProviderID,
		profile.FullName,
		profile.Company,
		profile.AvatarURL,
		now,
		now,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

// GetByProviderID retrieves a profile by OIDC provider subject
func (r *ProfileRepository) GetByProviderID(ctx context.Context, providerID string) (*models.Profile, error) {
	return r.getOne(ctx, `WHERE provider_id = $1`, providerID)
}

func (r *ProfileRepository) getOne(ctx context.Context, where string, arg any) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, email, provider_id, full_name, company, avatar_url, created_at, updated_at
		FROM profiles ` + where

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&profile.ID,
		&profile.Email,
		&profile.ProviderID,
		&profile.FullName,
		&profile.Company,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Update updates an existing profile
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET email = $2, provider_id = $3, full_name = $4, company = $5, avatar_url = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.ProviderID,
		profile.FullName,
		profile.Company,
		profile.AvatarURL,
		time.Now(),
	).Scan(&profile.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("profile not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// ListPaginated retrieves profiles, newest first. Admin only.
func (r *ProfileRepository) ListPaginated(ctx context.Context, page, pageSize int) ([]*models.Profile, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `
		SELECT id, email, provider_id, full_name, company, avatar_url, created_at, updated_at
		FROM profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile := &models.Profile{}
		err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.ProviderID,
			&profile.FullName,
			&profile.Company,
			&profile.AvatarURL,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, total, nil
}

// CountAll returns the total number of profiles
func (r *ProfileRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return total, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// UserRoleRepository handles role assignments
type UserRoleRepository struct {
	db *DB
}

// NewUserRoleRepository creates a new user role repository
func NewUserRoleRepository(db *DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

// HasRole reports whether the user holds the given role
func (r *UserRoleRepository) HasRole(ctx context.Context, userID uuid.UUID, role models.AppRole) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)
	`, userID, role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return exists, nil
}

// Grant assigns a role to a user. Granting an already-held role is a no-op.
func (r *UserRoleRepository) Grant(ctx context.Context, userID uuid.UUID, role models.AppRole) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, role) DO NOTHING
	`, uuid.New(), userID, role, time.Now())
	if err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

// Revoke removes a role from a user
func (r *UserRoleRepository) Revoke(ctx context.Context, userID uuid.UUID, role models.AppRole) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_roles WHERE user_id = $1 AND role = $2
	`, userID, role)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

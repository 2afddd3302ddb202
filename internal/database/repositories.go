package database

import (
	"context"
	"time"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/google/uuid"
)

// AnalysisRepositoryInterface defines the operations the analyze workflow and
// handlers need from analysis storage. Enables mock implementations in tests.
type AnalysisRepositoryInterface interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	GetByUserIDPaginated(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Analysis, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisCacheInterface defines result cache operations
type AnalysisCacheInterface interface {
	Lookup(ctx context.Context, brandKey string) (*models.AnalysisResult, error)
	Store(ctx context.Context, brandKey string, result *models.AnalysisResult, ttl time.Duration) error
}

// RateLimiterInterface defines the atomic per-user rate limit check
type RateLimiterInterface interface {
	CheckAndIncrement(ctx context.Context, userID uuid.UUID, action string, maxRequests int, window time.Duration) (bool, error)
}

// EmailPreferenceRepositoryInterface defines email preference storage
type EmailPreferenceRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.EmailPreference, error)
	Upsert(ctx context.Context, pref *models.EmailPreference) error
}

// ProfileRepositoryInterface defines profile lookups used by the workers
type ProfileRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// UserRoleRepositoryInterface defines the role check used by admin middleware
type UserRoleRepositoryInterface interface {
	HasRole(ctx context.Context, userID uuid.UUID, role models.AppRole) (bool, error)
}

// Ensure concrete types implement the interfaces
var (
	_ AnalysisRepositoryInterface        = (*AnalysisRepository)(nil)
	_ AnalysisCacheInterface             = (*AnalysisCacheRepository)(nil)
	_ RateLimiterInterface               = (*RateLimitRepository)(nil)
	_ EmailPreferenceRepositoryInterface = (*EmailPreferenceRepository)(nil)
	_ ProfileRepositoryInterface         = (*ProfileRepository)(nil)
	_ UserRoleRepositoryInterface        = (*UserRoleRepository)(nil)
)

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

// AnalysisCacheRepository stores previously computed analysis payloads keyed by
// normalized brand name. Entries are upserted (one row per brand key) and
// lookups never return rows past their expiry.
type AnalysisCacheRepository struct {
	db *DB
}

// NewAnalysisCacheRepository creates a new analysis cache repository
func NewAnalysisCacheRepository(db *DB) *AnalysisCacheRepository {
	return &AnalysisCacheRepository{db: db}
}

// Lookup returns the cached payload for a brand key, or nil on a miss.
// An entry whose expires_at has passed is a miss.
func (r *AnalysisCacheRepository) Lookup(ctx context.Context, brandKey string) (*models.AnalysisResult, error) {
	var cacheData []byte
	var expiresAt time.Time

	err := r.db.QueryRowContext(ctx, `
		SELECT cache_data, expires_at
		FROM analyses_cache
		WHERE brand_key = $1
	`, models.BrandKey(brandKey)).Scan(&cacheData, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up cache entry: %w", err)
	}

	if cacheEntryExpired(expiresAt, time.Now()) {
		return nil, nil
	}

	result := &models.AnalysisResult{}
	if err := json.Unmarshal(cacheData, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	return result, nil
}

// cacheEntryExpired reports whether an entry is past its expiry. An
// entry expiring exactly now is already expired.
func cacheEntryExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}

// Store upserts the payload for a brand key with the given TTL. A second store
// for the same key replaces the previous payload and expiry; last write wins.
func (r *AnalysisCacheRepository) Store(ctx context.Context, brandKey string, result *models.AnalysisResult, ttl time.Duration) error {
	cacheData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses_cache (id, brand_key, cache_data, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (brand_key) DO UPDATE SET
			cache_data = EXCLUDED.cache_data,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`, uuid.New(), models.BrandKey(brandKey), cacheData, now.Add(ttl), now)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// PurgeExpired deletes all expired cache entries and returns the number removed
func (r *AnalysisCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses_cache WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache entries: %w", err)
	}
	return result.RowsAffected()
}

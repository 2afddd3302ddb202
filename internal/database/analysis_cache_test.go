package database

import (
	"testing"
	"time"
)

func TestCacheEntryExpired(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expires in the future", now.Add(time.Hour), false},
		{"expires far in the future", now.Add(7 * 24 * time.Hour), false},
		{"expired in the past", now.Add(-time.Second), true},
		{"expires exactly now", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheEntryExpired(tt.expiresAt, now); got != tt.want {
				t.Errorf("cacheEntryExpired(%v, %v) = %v, want %v", tt.expiresAt, now, got, tt.want)
			}
		})
	}
}

func TestAnalysisCacheRepository_Lookup_ExpiredEntry(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

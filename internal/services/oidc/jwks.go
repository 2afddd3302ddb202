package oidc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

const jwksCacheTTL = 1 * time.Hour

type jwksEntry struct {
	keys    jwk.Set
	expires time.Time
}

// JWKSManager fetches and caches JWKS documents per URL. Signing keys
// rotate rarely, so entries are reused for jwksCacheTTL before a refetch.
type JWKSManager struct {
	mu      sync.RWMutex
	entries map[string]jwksEntry
	client  *http.Client
	ttl     time.Duration
}

// NewJWKSManager creates a JWKS manager with the default cache TTL.
func NewJWKSManager() *JWKSManager {
	return &JWKSManager{
		entries: make(map[string]jwksEntry),
		client:  &http.Client{Timeout: 10 * time.Second},
		ttl:     jwksCacheTTL,
	}
}

// GetJWKS returns the key set for jwksURL, refetching when the cached
// copy has expired.
func (m *JWKSManager) GetJWKS(ctx context.Context, jwksURL string) (jwk.Set, error) {
	m.mu.RLock()
	entry, ok := m.entries[jwksURL]
	m.mu.RUnlock()

	if ok && entry.keys != nil && time.Now().Before(entry.expires) {
		return entry.keys, nil
	}

	keys, err := m.fetch(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	m.mu.Lock()
	m.entries[jwksURL] = jwksEntry{keys: keys, expires: time.Now().Add(m.ttl)}
	m.mu.Unlock()

	return keys, nil
}

func (m *JWKSManager) fetch(ctx context.Context, jwksURL string) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read jwks response: %w", err)
	}

	keys, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}

	return keys, nil
}

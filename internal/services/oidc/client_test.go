package oidc

import (
	"strings"
	"testing"

	"github.com/brainindex/brainindex-api/internal/models"
)

func stringPtr(s string) *string {
	return &s
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		oidcConfig *models.OIDCConfig
		validate   func(*testing.T, *Client)
	}{
		{
			name: "with client secret",
			oidcConfig: &models.OIDCConfig{
				ClientID:     "test-client-id",
				ClientSecret: stringPtr("test-secret"),
				RedirectURI:  "http://localhost:3000/callback",
				Issuer:       "https://auth.example.com",
			},
			validate: func(t *testing.T, client *Client) {
				if client == nil {
					t.Fatal("Client is nil")
				}
				if client.config == nil {
					t.Fatal("OAuth2 config is nil")
				}
				if client.config.ClientID != "test-client-id" {
					t.Errorf("Expected ClientID 'test-client-id', got '%s'", client.config.ClientID)
				}
				if client.config.ClientSecret != "test-secret" {
					t.Errorf("Expected ClientSecret 'test-secret', got '%s'", client.config.ClientSecret)
				}
				if client.config.RedirectURL != "http://localhost:3000/callback" {
					t.Errorf("Expected RedirectURL 'http://localhost:3000/callback', got '%s'", client.config.RedirectURL)
				}
			},
		},
		{
			name: "without client secret (public client)",
			oidcConfig: &models.OIDCConfig{
				ClientID:    "test-client-id",
				RedirectURI: "http://localhost:3000/callback",
				Issuer:      "https://auth.example.com",
			},
			validate: func(t *testing.T, client *Client) {
				if client == nil {
					t.Fatal("Client is nil")
				}
				if client.config.ClientSecret != "" {
					t.Errorf("Expected empty ClientSecret for public client, got '%s'", client.config.ClientSecret)
				}
			},
		},
		{
			name: "issuer with trailing slash",
			oidcConfig: &models.OIDCConfig{
				ClientID:    "test-client-id",
				RedirectURI: "http://localhost:3000/callback",
				Issuer:      "https://auth.example.com/",
			},
			validate: func(t *testing.T, client *Client) {
				if client.config.Endpoint.AuthURL != "https://auth.example.com/oauth2/authorize" {
					t.Errorf("unexpected AuthURL: %s", client.config.Endpoint.AuthURL)
				}
				if client.config.Endpoint.TokenURL != "https://auth.example.com/oauth2/token" {
					t.Errorf("unexpected TokenURL: %s", client.config.Endpoint.TokenURL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := NewClient(tt.oidcConfig)

			if tt.validate != nil {
				tt.validate(t, client)
			}
		})
	}
}

func TestClient_AuthCodeURL(t *testing.T) {
	t.Parallel()

	config := &models.OIDCConfig{
		ClientID:    "test-client-id",
		RedirectURI: "http://localhost:3000/callback",
		Issuer:      "https://auth.example.com",
	}

	client := NewClient(config)
	state := "test-state-123"

	url := client.AuthCodeURL(state)

	if url == "" {
		t.Error("AuthCodeURL returned empty string")
	}

	if !strings.Contains(url, state) {
		t.Errorf("AuthCodeURL should contain state, got %s", url)
	}
}

func TestIssuerURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		issuer string
		path   string
		want   string
	}{
		{"https://auth.example.com", "oauth2/token", "https://auth.example.com/oauth2/token"},
		{"https://auth.example.com/", "oauth2/token", "https://auth.example.com/oauth2/token"},
		{"https://auth.example.com", ".well-known/openid-configuration", "https://auth.example.com/.well-known/openid-configuration"},
	}

	for _, tt := range tests {
		if got := issuerURL(tt.issuer, tt.path); got != tt.want {
			t.Errorf("issuerURL(%q, %q) = %q, want %q", tt.issuer, tt.path, got, tt.want)
		}
	}
}

package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
)

// NewOIDCCmd creates the OIDC configuration command
func NewOIDCCmd() *cobra.Command {
	var issuer, domain, clientID, clientSecret, redirectURI string

	cmd := &cobra.Command{
		Use:   "oidc <provider-name>",
		Short: "Configure OIDC provider",
		Long:  "Configure an OIDC provider for authentication. Provider name can be any identifier (e.g., 'cognito', 'okta', 'auth0')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]

			if provider == "" {
				return fmt.Errorf("provider name cannot be empty")
			}
			if issuer == "" || clientID == "" || redirectURI == "" {
				return fmt.Errorf("required flags: --issuer, --client-id, --redirect-uri (--client-secret is optional for public clients)")
			}

			db, err := openDB()
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer closeDB(db)

			oidcRepo := database.NewOIDCConfigRepository(db)
			ctx := context.Background()

			config := &models.OIDCConfig{
				ID:          uuid.New(),
				Provider:    provider,
				Issuer:      issuer,
				ClientID:    clientID,
				RedirectURI: redirectURI,
			}
			if domain != "" {
				config.Domain = &domain
			}
			if clientSecret != "" {
				config.ClientSecret = &clientSecret
			}
			jwksURL := issuer + "/.well-known/jwks.json"
			config.JWKSUrl = &jwksURL

			if err := oidcRepo.Set(ctx, config); err != nil {
				return fmt.Errorf("failed to save OIDC config: %w", err)
			}
			fmt.Printf("Saved OIDC configuration for provider: %s\n", provider)

			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "OIDC issuer URL (required)")
	cmd.Flags().StringVar(&domain, "domain", "", "OAuth2 domain (optional, for providers with custom domains)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID (required)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret (optional for public clients)")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "OAuth2 redirect URI (required)")

	return cmd
}

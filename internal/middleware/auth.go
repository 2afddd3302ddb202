package middleware

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/request"
	"github.com/brainindex/brainindex-api/internal/services/oidc"
)

// Auth creates authentication middleware that validates JWT tokens and
// resolves (or lazily creates) the caller's profile.
func Auth(db *database.DB, oidcProvider *oidc.Provider, jwksManager *oidc.JWKSManager, providerName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, status, message := authenticate(r, db, oidcProvider, jwksManager, providerName, logger)
			if profile == nil {
				respondError(w, status, message)
				return
			}

			ctx := request.WithProfile(r.Context(), profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the profile when a bearer token is present but
// lets anonymous requests through. Invalid tokens are still rejected,
// a caller who presents credentials must present valid ones.
func OptionalAuth(db *database.DB, oidcProvider *oidc.Provider, jwksManager *oidc.JWKSManager, providerName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			profile, status, message := authenticate(r, db, oidcProvider, jwksManager, providerName, logger)
			if profile == nil {
				respondError(w, status, message)
				return
			}

			ctx := request.WithProfile(r.Context(), profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate verifies the bearer token and returns the profile, or
// nil with an HTTP status and message to respond with.
func authenticate(r *http.Request, db *database.DB, oidcProvider *oidc.Provider, jwksManager *oidc.JWKSManager, providerName string, logger *zap.Logger) (*models.Profile, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, "Missing Authorization header"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid Authorization header format"
	}

	tokenString := parts[1]
	ctx := r.Context()

	oidcConfig, err := oidcProvider.GetConfig(ctx, providerName)
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to get OIDC configuration"
	}

	if oidcConfig.JWKSUrl == nil {
		return nil, http.StatusInternalServerError, "JWKS URL not configured"
	}

	verifier := oidc.NewVerifier(jwksManager, oidcConfig.Issuer)
	claims, err := verifier.Verify(ctx, tokenString, *oidcConfig.JWKSUrl)
	if err != nil {
		logger.Warn("token_verification_failed",
			zap.String("issuer", oidcConfig.Issuer),
			zap.Error(err),
		)
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	profileRepo := database.NewProfileRepository(db)
	profile, err := profileRepo.GetByProviderID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// First request from this identity, create the profile
			sub := claims.Sub
			profile = &models.Profile{
				ID:         uuid.New(),
				Email:      claims.Email,
				ProviderID: &sub,
			}
			if claims.Name != "" {
				name := claims.Name
				profile.FullName = &name
			}
			if err := profileRepo.Create(ctx, profile); err != nil {
				logger.Error("profile_create_failed", zap.Error(err))
				return nil, http.StatusInternalServerError, "Failed to create profile"
			}
		} else {
			logger.Error("profile_lookup_failed", zap.Error(err))
			return nil, http.StatusInternalServerError, "Database error"
		}
	} else {
		// Keep email and name in sync with the identity provider
		updateNeeded := false
		if profile.Email != claims.Email && claims.Email != "" {
			profile.Email = claims.Email
			updateNeeded = true
		}
		if claims.Name != "" && (profile.FullName == nil || *profile.FullName != claims.Name) {
			name := claims.Name
			profile.FullName = &name
			updateNeeded = true
		}
		if updateNeeded {
			if err := profileRepo.Update(ctx, profile); err != nil {
				logger.Warn("profile_update_failed", zap.Error(err))
			}
		}
	}

	return profile, 0, ""
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	_ = json.NewEncoder(w).Encode(response)
}

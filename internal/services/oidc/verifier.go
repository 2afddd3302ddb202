package oidc

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/brainindex/brainindex-api/internal/models"
)

// Verifier validates bearer tokens against the provider's JWKS.
type Verifier struct {
	jwksManager *JWKSManager
	issuer      string
}

// NewVerifier creates a verifier bound to a single expected issuer.
func NewVerifier(jwksManager *JWKSManager, issuer string) *Verifier {
	return &Verifier{
		jwksManager: jwksManager,
		issuer:      issuer,
	}
}

// Verify parses and validates tokenString and returns its claims.
// Signature, expiry and issuer are all checked; any failure rejects
// the token.
func (v *Verifier) Verify(ctx context.Context, tokenString string, jwksURL string) (*models.JWTClaims, error) {
	keys, err := v.jwksManager.GetJWKS(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(tokenString), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	if token.Issuer() != v.issuer {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %s", v.issuer, token.Issuer())
	}
	if token.Subject() == "" {
		return nil, fmt.Errorf("token missing sub claim")
	}

	claims := &models.JWTClaims{
		Sub: token.Subject(),
		Iss: token.Issuer(),
	}
	if !token.Expiration().IsZero() {
		claims.Exp = token.Expiration().Unix()
	}
	if !token.IssuedAt().IsZero() {
		claims.Iat = token.IssuedAt().Unix()
	}
	if aud := token.Audience(); len(aud) > 0 {
		claims.Aud = aud[0]
	}
	claims.Email = stringClaim(token, "email")
	claims.Name = stringClaim(token, "name")

	return claims, nil
}

func stringClaim(token jwt.Token, name string) string {
	val, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := val.(string)
	return s
}

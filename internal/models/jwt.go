package models

// JWTClaims is the subset of ID token claims the API uses. Sub is the
// stable identifier assigned by the identity provider and is the key
// profiles are looked up by.
type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
	Iss   string `json:"iss"`
	Aud   string `json:"aud"`
}

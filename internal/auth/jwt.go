// Package auth observes the staff sessions issued by the platform's auth
// service. Tokens are minted and revoked on the platform; this service only
// verifies them and reports present/absent.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// audienceAuthenticated is the audience claim the platform sets on signed-in
// sessions.
const audienceAuthenticated = "authenticated"

// Claims are the platform access-token claims this service cares about.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier validates platform-issued access tokens with the shared
// signing secret.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for the platform's JWT secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates a token, returning its claims or
// ErrInvalidToken. Expiry and audience are enforced.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithAudience(audienceAuthenticated))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

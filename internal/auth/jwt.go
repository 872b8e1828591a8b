package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the dashboard reads out of the backend's access token.
// The dashboard has no signing key, so claims are parsed, never verified;
// the backend remains the authority and answers 401 for bad tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes tokenStr without checking its signature.
func ParseClaims(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Expired reports whether tokenStr carries an exp claim at or before now.
// Opaque (non-JWT) tokens and tokens without exp never expire client side.
func Expired(tokenStr string, now time.Time) bool {
	claims, err := ParseClaims(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryOf returns the exp claim of a JWT access token without verifying it. The client
// has no key to verify with; the value is only used to avoid sending a token that is
// certain to be rejected. Opaque tokens and JWTs without exp yield the zero time.
func ExpiryOf(rawToken string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a JWT without verifying its signature. The client
// cannot verify backend tokens; it only uses the claim to drop sessions that are
// certainly dead. ok is false for opaque tokens and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenTTL returns how long token stays valid from now, or 0 if it carries no expiry.
// Expired tokens return a negative duration.
func TokenTTL(token string, now time.Time) time.Duration {
	exp, ok := TokenExpiry(token)
	if !ok {
		return 0
	}
	return exp.Sub(now)
}

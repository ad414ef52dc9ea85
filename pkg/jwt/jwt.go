package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotJWT       = errors.New("bearer token is not a JWT")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the subset of the API's bearer token the client reads.
// Signatures are not verified client-side.
type Claims struct {
	jwt.RegisteredClaims
}

// Inspect parses the token without verifying it.
// Opaque (non-JWT) tokens return ErrNotJWT.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// CheckExpiry reports ErrExpiredToken when the token carries an exp
// claim that is in the past at now. Tokens without exp, and opaque
// tokens, are left for the API to judge.
func CheckExpiry(token string, now time.Time) error {
	claims, err := Inspect(token)
	if err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return ErrExpiredToken
	}
	return nil
}

// Subject returns the sub claim, or "" when the token is opaque
func Subject(token string) string {
	claims, err := Inspect(token)
	if err != nil {
		return ""
	}
	return claims.Subject
}

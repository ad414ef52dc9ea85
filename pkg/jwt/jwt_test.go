package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestCheckExpiry(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:  "valid token",
			token: signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}),
		},
		{
			name:    "expired token",
			token:   signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}),
			wantErr: ErrExpiredToken,
		},
		{
			name:  "token without exp",
			token: signedToken(t, jwt.RegisteredClaims{Subject: "a@b.com"}),
		},
		{
			name:  "opaque token",
			token: "not-a-jwt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpiry(tt.token, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInspect(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{Subject: "learner@inkspire.dev"})

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "learner@inkspire.dev", claims.Subject)
	assert.Equal(t, "learner@inkspire.dev", Subject(token))

	_, err = Inspect("opaque")
	assert.ErrorIs(t, err, ErrNotJWT)
	assert.Empty(t, Subject("opaque"))
}

package jwtutil

import (
	"errors"
	"testing"
	"time"

	"gruago/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := GenerateToken(42, 7, "driver@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, uint(7), claims.TenantID)
	assert.Equal(t, "driver@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateExpiredToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	// Issue a token that expired an hour ago
	savedTTL := tokenTTL
	tokenTTL = -time.Hour
	token, err := GenerateToken(1, 1, "late@example.com", "user")
	tokenTTL = savedTTL
	require.NoError(t, err)

	_, err = ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestValidateTamperedToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := GenerateToken(1, 1, "user@example.com", "user")
	require.NoError(t, err)

	// Flip the last character of the signature
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestValidateTokenSignedWithDifferentKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "first-key", ExpirationHours: 1})
	token, err := GenerateToken(1, 1, "user@example.com", "user")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "second-key", ExpirationHours: 1})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

package jwtutil

import (
	"time"

	"gruago/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey []byte
	tokenTTL   = 24 * time.Hour
)

// UserClaims represents the JWT claims carried by every issued token. The
// payload is signed, not encrypted: nothing secret goes in here.
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	TenantID uint   `json:"tenant_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Initialize sets the signing key and token lifetime from configuration.
// Must be called once at startup before any token is issued or validated.
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	if cfg.ExpirationHours > 0 {
		tokenTTL = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// GenerateToken creates a signed JWT carrying the user's identity and tenant
func GenerateToken(userID, tenantID uint, email, role string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:   userID,
		TenantID: tenantID,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token. Expired tokens surface
// as jwt.ErrTokenExpired so callers can distinguish them from tampering.
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

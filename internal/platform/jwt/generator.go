// Package jwtmw issues and verifies HS256 access tokens and provides the gin auth middleware.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultExpiration is the access token lifetime used when none is configured.
const DefaultExpiration = 24 * time.Hour

// ErrInvalidToken is returned for tokens that parse but carry no usable identity.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the claims carried by an access token.
// Subject holds the user ID and ID (jti) makes every issued token distinct.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret     []byte
	expiration time.Duration
}

// NewManager creates a new JWT manager with the provided secret and expiration duration.
// A non-positive expiration falls back to DefaultExpiration.
func NewManager(secret string, expiration time.Duration) *Manager {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Manager{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Expiration returns the configured token lifetime.
func (m *Manager) Expiration() time.Duration {
	return m.expiration
}

// GenerateToken creates a signed JWT token with standard claims.
func (m *Manager) GenerateToken(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExpiresAt reads the exp claim without verifying the signature.
// Used on logout, where the token only needs to be remembered until it would expire anyway.
func (m *Manager) ExpiresAt(tokenStr string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

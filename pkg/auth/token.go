// Package auth provides token issuance, validation, and the user store
// backing the password flow.
package auth

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims represents the validated token claims.
type Claims struct {
	// Subject is the authenticated username. It doubles as the
	// session partition key for query handling.
	Subject string `json:"sub"`
}

// TokenService issues and validates HS256 bearer tokens signed with a
// shared secret.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService builds a TokenService. The secret must be at least 32
// bytes; shorter secrets are rejected at config validation already, but
// the check is repeated here for direct constructions.
func NewTokenService(secret []byte, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("token secret must be at least 32 bytes")
	}
	if issuer == "" {
		return nil, fmt.Errorf("token issuer is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &TokenService{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// Issue signs a token for the given subject. Returns the compact token
// and its expiry.
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("token subject is required")
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)

	token, err := jwt.NewBuilder().
		Issuer(s.issuer).
		Subject(subject).
		IssuedAt(now).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Validate parses a compact token and verifies its signature, expiry,
// and issuer.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if token.Subject() == "" {
		return nil, fmt.Errorf("invalid token: missing subject")
	}

	return &Claims{Subject: token.Subject()}, nil
}

package auth

import (
	"context"
	"time"
)

// JWTService issues and verifies bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token for userID valid for the configured lifetime.
	// Returns ErrMissingSigningKey if the service has no secret.
	GenerateToken(ctx context.Context, userID int64) (*IssuedToken, error)

	// ValidateToken checks the token's signature and expiry and returns its claims.
	// Returns ErrExpiredToken for an authentic token past its expiry and
	// ErrInvalidToken for anything else that fails verification.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// IssuedToken is a signed token together with the moment it stops being accepted.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Claims is the verified content of a token.
type Claims struct {
	// UserID is the subject the token was issued for.
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
	// ID is the unique token identifier (jti).
	ID string
}

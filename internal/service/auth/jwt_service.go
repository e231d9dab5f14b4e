// Package auth provides the narrow authentication collaborators the task
// core depends on: token issuance/validation and password hashing.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims holds the validated contents of an access token.
type Claims struct {
	UserID    uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService defines the interface for generating and validating access
// tokens. Implementations must surface validation failures through the
// package sentinel errors so callers can map them to a uniform 401.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies a token string and returns its claims.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

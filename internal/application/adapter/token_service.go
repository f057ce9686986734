package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenPair represents an access and refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	// GenerateTokenPair generates a new access and refresh token pair and records the refresh token.
	GenerateTokenPair(ctx context.Context, userID uuid.UUID, email string) (*TokenPair, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)

	// ValidateRefreshToken validates a refresh token signature and that it has not been revoked.
	ValidateRefreshToken(ctx context.Context, token string) (*TokenClaims, error)

	// InvalidateRefreshToken revokes a refresh token.
	InvalidateRefreshToken(ctx context.Context, token string) error

	// InvalidateAllUserTokens revokes all refresh tokens for a user.
	InvalidateAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// RefreshTokenStore keeps track of issued refresh tokens until they expire or are revoked.
type RefreshTokenStore interface {
	// Save records a refresh token for the user with the given time to live.
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error

	// Exists reports whether the token is recorded and not revoked.
	Exists(ctx context.Context, token string) (bool, error)

	// Delete revokes a single token.
	Delete(ctx context.Context, token string) error

	// DeleteAllForUser revokes every token of the user.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

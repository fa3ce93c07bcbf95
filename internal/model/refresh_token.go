package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore defines persistence for refresh tokens. The session
// flow that would issue and rotate these is not part of this service;
// the store exists so soft-deleting a user can invalidate its sessions.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) (RefreshToken, error)
	GetByHash(ctx context.Context, tokenHash string) (RefreshToken, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllByUser(ctx context.Context, userID int64) error
}

// RefreshToken represents a stored session refresh token.
type RefreshToken struct {
	ID             uuid.UUID
	UserID         int64
	TokenHash      string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	RevokedAt      *time.Time
	ReplacedByHash *string
	CreatedByIP    string
	UserAgent      string
}

package repository

import (
	"context"
	"time"
)

// TokenRepository tracks access tokens revoked by sign-out.
type TokenRepository interface {
	// Revoke records jti as revoked until expiresAt. Revoking twice is not an error.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

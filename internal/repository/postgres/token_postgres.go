package postgres

import (
	"context"
	"database/sql"
	"time"

	"fitbook/internal/repository"
)

// TokenPostgres is a PostgreSQL implementation of repository.TokenRepository.
type TokenPostgres struct {
	db *sql.DB
}

// NewTokenPostgres creates a new TokenPostgres repository.
func NewTokenPostgres(db *sql.DB) *TokenPostgres {
	return &TokenPostgres{db: db}
}

var _ repository.TokenRepository = (*TokenPostgres)(nil)

// Revoke records a token id as revoked. Expired rows are pruned on the way.
func (r *TokenPostgres) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	const q = `INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2) ON CONFLICT (jti) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, jti, expiresAt); err != nil {
		return err
	}
	const qPrune = `DELETE FROM revoked_tokens WHERE expires_at < now()`
	_, err := r.db.ExecContext(ctx, qPrune)
	return err
}

// IsRevoked reports whether the token id was revoked.
func (r *TokenPostgres) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	var revoked bool
	if err := r.db.QueryRowContext(ctx, q, jti).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

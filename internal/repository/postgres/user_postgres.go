package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

const userColumns = `id, email, password_hash, full_name, confirmation_token, email_confirmed_at, created_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.ConfirmationToken,
		&u.EmailConfirmedAt,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

const insertUser = `
		INSERT INTO users (id, email, password_hash, full_name, confirmation_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	out, err := scanUser(r.db.QueryRowContext(ctx, insertUser,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.ConfirmationToken,
		u.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return out, nil
}

// CreateWithTrainer inserts the user and the trainer profile in one transaction.
func (r *UserPostgres) CreateWithTrainer(ctx context.Context, u *model.User, t *model.Trainer) (*model.User, *model.Trainer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	storedUser, err := scanUser(tx.QueryRowContext(ctx, insertUser,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.ConfirmationToken,
		u.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, repository.ErrDuplicate
		}
		return nil, nil, err
	}

	const qTrainer = `
		INSERT INTO trainers (id, user_id, name, email, phone, specialties, bio, hourly_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + trainerColumns
	storedTrainer, err := scanTrainer(tx.QueryRowContext(ctx, qTrainer,
		t.ID,
		storedUser.ID,
		t.Name,
		t.Email,
		t.Phone,
		pq.Array(t.Specialties),
		t.Bio,
		t.HourlyRate,
		t.CreatedAt,
	))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return storedUser, storedTrainer, nil
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by its (lower-cased) email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// SetConfirmationToken replaces the token of an unconfirmed user.
// It returns sql.ErrNoRows when the user does not exist or is already confirmed.
func (r *UserPostgres) SetConfirmationToken(ctx context.Context, id, token string) error {
	const q = `UPDATE users SET confirmation_token = $2 WHERE id = $1 AND email_confirmed_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id, token)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Confirm sets email_confirmed_at for the user owning token and clears the token.
func (r *UserPostgres) Confirm(ctx context.Context, token string, at time.Time) (*model.User, error) {
	const q = `
		UPDATE users
		SET email_confirmed_at = $2, confirmation_token = NULL
		WHERE confirmation_token = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q, token, at))
}

// expectAffected turns an update that matched nothing into sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

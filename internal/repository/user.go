package repository

import (
	"context"
	"time"

	"fitbook/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a user. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// CreateWithTrainer inserts a user and its trainer profile in a single transaction.
	// Nothing is persisted if either insert fails.
	CreateWithTrainer(ctx context.Context, u *model.User, t *model.Trainer) (*model.User, *model.Trainer, error)

	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// SetConfirmationToken replaces the pending confirmation token of an unconfirmed user.
	SetConfirmationToken(ctx context.Context, id, token string) error

	// Confirm marks the user owning token as confirmed at the given time and clears the token.
	Confirm(ctx context.Context, token string, at time.Time) (*model.User, error)
}

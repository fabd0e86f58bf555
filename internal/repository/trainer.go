package repository

import (
	"context"

	"fitbook/internal/model"
)

// TrainerRepository defines data access for trainer profiles.
type TrainerRepository interface {
	FindByID(ctx context.Context, id string) (*model.Trainer, error)

	// FindByUserID resolves the trainer profile of a user; sql.ErrNoRows means the user is a client.
	FindByUserID(ctx context.Context, userID string) (*model.Trainer, error)

	// List returns trainers ordered by name.
	List(ctx context.Context, page PageQuery) (*PageResult[model.Trainer], error)

	// UpdatePhoto points the trainer at a new photo object key and returns the
	// key it replaced, or "" when the trainer had no photo.
	UpdatePhoto(ctx context.Context, id, photoPath string) (previous string, err error)
}

package repository

import (
	"context"

	"fitbook/internal/model"
)

// SessionRepository defines data access for training sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.TrainingSession) (*model.TrainingSession, error)
	FindByID(ctx context.Context, id string) (*model.TrainingSession, error)

	// ListAvailable returns available sessions joined with their trainer,
	// ordered by session date then start time.
	ListAvailable(ctx context.Context, page PageQuery) (*PageResult[model.SessionListing], error)

	// ListByTrainer returns every session of a trainer ordered by session date then start time.
	ListByTrainer(ctx context.Context, trainerID string) ([]model.TrainingSession, error)

	// UpdateStatus sets the session status. Moving to cancelled also cancels the
	// session's active bookings in the same transaction.
	UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error
}

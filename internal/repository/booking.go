package repository

import (
	"context"

	"fitbook/internal/model"
)

// BookingRepository defines data access for bookings.
type BookingRepository interface {
	// Create inserts a booking only while its session is available. Returns
	// ErrStateConflict when the session is no longer available and ErrDuplicate
	// when the client already holds an active booking for the session.
	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)

	FindByID(ctx context.Context, id string) (*model.Booking, error)

	// ListByTrainer returns the bookings made against any session of a trainer,
	// joined with their clients and ordered by booking date.
	ListByTrainer(ctx context.Context, trainerID string) ([]model.BookingWithClient, error)

	// ListByClient returns a client's bookings joined with session and trainer, newest first.
	ListByClient(ctx context.Context, clientID string) ([]model.ClientBooking, error)

	// UpdateStatus moves a booking to status if its current status is one of from.
	// Returns sql.ErrNoRows for an unknown id and ErrStateConflict when the
	// booking has moved on since it was read.
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus, from ...model.BookingStatus) error
}

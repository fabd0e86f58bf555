package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

// BookingService books sessions for clients and lets both sides act on bookings.
type BookingService interface {
	Book(ctx context.Context, userID, sessionID string) (*model.Booking, error)
	// ListForClient returns the caller's bookings, newest first.
	ListForClient(ctx context.Context, userID string) ([]model.ClientBooking, error)
	// Confirm moves a pending booking to confirmed. Only the session's trainer may do it.
	Confirm(ctx context.Context, userID, bookingID string) (*model.Booking, error)
	// Cancel is open to the booking's client and the session's trainer.
	Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	sessions repository.SessionRepository
	trainers repository.TrainerRepository
}

func NewBookingService(
	bookings repository.BookingRepository,
	sessions repository.SessionRepository,
	trainers repository.TrainerRepository,
) BookingService {
	return &bookingService{bookings: bookings, sessions: sessions, trainers: trainers}
}

func (s *bookingService) Book(ctx context.Context, userID, sessionID string) (*model.Booking, error) {
	ts, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ts.Status != model.SessionAvailable {
		return nil, ErrSessionUnavailable
	}
	_, t, err := resolveRole(ctx, s.trainers, userID)
	if err != nil {
		return nil, err
	}
	if t != nil && t.ID == ts.TrainerID {
		return nil, ErrOwnSession
	}

	now := time.Now().UTC()
	b, err := s.bookings.Create(ctx, &model.Booking{
		ID:          uuid.NewString(),
		SessionID:   ts.ID,
		ClientID:    userID,
		Status:      model.BookingPending,
		BookingDate: now,
		CreatedAt:   now,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyBooked
		case errors.Is(err, repository.ErrStateConflict):
			return nil, ErrSessionUnavailable
		}
		return nil, err
	}
	return b, nil
}

func (s *bookingService) ListForClient(ctx context.Context, userID string) ([]model.ClientBooking, error) {
	return s.bookings.ListByClient(ctx, userID)
}

func (s *bookingService) Confirm(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	b, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	owns, err := s.trainerOwns(ctx, userID, b.SessionID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrForbidden
	}
	if b.Status != model.BookingPending {
		return nil, ErrInvalidTransition
	}
	return s.transition(ctx, b, model.BookingConfirmed, model.BookingPending)
}

func (s *bookingService) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	b, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ClientID != userID {
		owns, err := s.trainerOwns(ctx, userID, b.SessionID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, ErrForbidden
		}
	}
	if !b.Status.Active() {
		return nil, ErrInvalidTransition
	}
	return s.transition(ctx, b, model.BookingCancelled, model.BookingPending, model.BookingConfirmed)
}

func (s *bookingService) find(ctx context.Context, bookingID string) (*model.Booking, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// trainerOwns reports whether userID is the trainer running sessionID.
func (s *bookingService) trainerOwns(ctx context.Context, userID, sessionID string) (bool, error) {
	_, t, err := resolveRole(ctx, s.trainers, userID)
	if err != nil || t == nil {
		return false, err
	}
	ts, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}
	return ts.TrainerID == t.ID, nil
}

// transition writes to only if the booking is still in one of from, so a
// concurrent confirm and cancel cannot revive a cancelled booking.
func (s *bookingService) transition(ctx context.Context, b *model.Booking, to model.BookingStatus, from ...model.BookingStatus) (*model.Booking, error) {
	if err := s.bookings.UpdateStatus(ctx, b.ID, to, from...); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrStateConflict):
			return nil, ErrInvalidTransition
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyBooked
		}
		return nil, err
	}
	b.Status = to
	return b, nil
}

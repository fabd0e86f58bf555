package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CreateSessionInput is the payload for a new training session.
type CreateSessionInput struct {
	SessionDate string            `json:"session_date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	SessionType model.SessionType `json:"session_type"`
	Price       float64           `json:"price"`
	Notes       string            `json:"notes"`
}

// SessionListResult is a page of available sessions.
type SessionListResult struct {
	Items []model.SessionListing `json:"data"`
	Total int                    `json:"total"`
}

// SessionService manages training sessions published by trainers.
type SessionService interface {
	Create(ctx context.Context, userID string, in CreateSessionInput) (*model.TrainingSession, error)
	// ListAvailable returns open sessions, soonest first.
	ListAvailable(ctx context.Context, limit, offset int) (*SessionListResult, error)
	// ListForTrainer returns the caller's sessions with their bookings.
	ListForTrainer(ctx context.Context, userID string) ([]model.TrainerSession, error)
	UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) (*model.TrainingSession, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	bookings repository.BookingRepository
	trainers repository.TrainerRepository
}

func NewSessionService(
	sessions repository.SessionRepository,
	bookings repository.BookingRepository,
	trainers repository.TrainerRepository,
) SessionService {
	return &sessionService{sessions: sessions, bookings: bookings, trainers: trainers}
}

func (in *CreateSessionInput) validate() (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(in.SessionDate))
	if err != nil {
		return time.Time{}, invalid("session_date must be YYYY-MM-DD")
	}
	start, err := time.Parse(timeLayout, strings.TrimSpace(in.StartTime))
	if err != nil {
		return time.Time{}, invalid("start_time must be HH:MM")
	}
	end, err := time.Parse(timeLayout, strings.TrimSpace(in.EndTime))
	if err != nil {
		return time.Time{}, invalid("end_time must be HH:MM")
	}
	if !end.After(start) {
		return time.Time{}, invalid("end_time must be after start_time")
	}
	if in.SessionType == "" {
		in.SessionType = model.SessionPersonal
	}
	if !in.SessionType.Valid() {
		return time.Time{}, invalid("session_type must be personal, group or virtual")
	}
	if in.Price < 0 {
		return time.Time{}, invalid("price must not be negative")
	}
	in.StartTime = start.Format(timeLayout)
	in.EndTime = end.Format(timeLayout)
	return date, nil
}

func (s *sessionService) Create(ctx context.Context, userID string, in CreateSessionInput) (*model.TrainingSession, error) {
	t, err := trainerFor(ctx, s.trainers, userID)
	if err != nil {
		return nil, err
	}
	date, err := in.validate()
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(ctx, &model.TrainingSession{
		ID:          uuid.NewString(),
		TrainerID:   t.ID,
		SessionDate: date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		SessionType: in.SessionType,
		Price:       in.Price,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      model.SessionAvailable,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *sessionService) ListAvailable(ctx context.Context, limit, offset int) (*SessionListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.sessions.ListAvailable(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &SessionListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *sessionService) ListForTrainer(ctx context.Context, userID string) ([]model.TrainerSession, error) {
	t, err := trainerFor(ctx, s.trainers, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByTrainer(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByTrainer(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	bySession := make(map[string][]model.BookingWithClient, len(sessions))
	for _, b := range bookings {
		bySession[b.SessionID] = append(bySession[b.SessionID], b)
	}
	out := make([]model.TrainerSession, 0, len(sessions))
	for _, ts := range sessions {
		bs := bySession[ts.ID]
		if bs == nil {
			bs = []model.BookingWithClient{}
		}
		out = append(out, model.TrainerSession{TrainingSession: ts, Bookings: bs})
	}
	return out, nil
}

func (s *sessionService) UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) (*model.TrainingSession, error) {
	if !status.Valid() {
		return nil, invalid("status must be available, cancelled or completed")
	}
	t, err := trainerFor(ctx, s.trainers, userID)
	if err != nil {
		return nil, err
	}
	ts, err := s.ownedSession(ctx, t, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateStatus(ctx, ts.ID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ts.Status = status
	return ts, nil
}

func (s *sessionService) ownedSession(ctx context.Context, t *model.Trainer, sessionID string) (*model.TrainingSession, error) {
	ts, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ts.TrainerID != t.ID {
		return nil, ErrForbidden
	}
	return ts, nil
}

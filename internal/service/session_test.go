package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fitbook/internal/model"
	"fitbook/internal/repository"
	repoMocks "fitbook/internal/repository/mocks"
)

type sessionDeps struct {
	sessions *repoMocks.MockSessionRepository
	bookings *repoMocks.MockBookingRepository
	trainers *repoMocks.MockTrainerRepository
}

func newSessionDeps() *sessionDeps {
	return &sessionDeps{
		sessions: new(repoMocks.MockSessionRepository),
		bookings: new(repoMocks.MockBookingRepository),
		trainers: new(repoMocks.MockTrainerRepository),
	}
}

func (d *sessionDeps) assertExpectations(t *testing.T) {
	d.sessions.AssertExpectations(t)
	d.bookings.AssertExpectations(t)
	d.trainers.AssertExpectations(t)
}

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()
	valid := CreateSessionInput{SessionDate: "2026-05-01", StartTime: "9:00", EndTime: "10:30", Price: 50}

	tests := []struct {
		name       string
		in         CreateSessionInput
		setupMocks func(d *sessionDeps)
		wantErr    error
	}{
		{
			name: "happy path defaults to personal",
			in:   valid,
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
				d.sessions.On("Create", ctx, mock.MatchedBy(func(s *model.TrainingSession) bool {
					return s.TrainerID == "t-1" &&
						s.SessionType == model.SessionPersonal &&
						s.Status == model.SessionAvailable &&
						s.StartTime == "09:00" && s.EndTime == "10:30" &&
						s.SessionDate.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
				})).Return(&model.TrainingSession{ID: "s-1"}, nil)
			},
		},
		{
			name: "not a trainer",
			in:   valid,
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotTrainer,
		},
		{
			name: "end before start",
			in:   CreateSessionInput{SessionDate: "2026-05-01", StartTime: "10:00", EndTime: "09:00"},
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
			},
			wantErr: ErrValidation,
		},
		{
			name: "equal times",
			in:   CreateSessionInput{SessionDate: "2026-05-01", StartTime: "10:00", EndTime: "10:00"},
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
			},
			wantErr: ErrValidation,
		},
		{
			name: "bad date",
			in:   CreateSessionInput{SessionDate: "01/05/2026", StartTime: "09:00", EndTime: "10:00"},
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
			},
			wantErr: ErrValidation,
		},
		{
			name: "unknown type",
			in:   CreateSessionInput{SessionDate: "2026-05-01", StartTime: "09:00", EndTime: "10:00", SessionType: "crossfit"},
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
			},
			wantErr: ErrValidation,
		},
		{
			name: "negative price",
			in:   CreateSessionInput{SessionDate: "2026-05-01", StartTime: "09:00", EndTime: "10:00", Price: -5},
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
			},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newSessionDeps()
			tt.setupMocks(d)

			s, err := NewSessionService(d.sessions, d.bookings, d.trainers).Create(ctx, "u-1", tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "s-1", s.ID)
			}
			d.assertExpectations(t)
		})
	}
}

func TestSessionService_ListAvailable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		offset    int
		wantQuery repository.PageQuery
	}{
		{"defaults", 0, -3, repository.PageQuery{Limit: 10, Offset: 0}},
		{"explicit", 5, 20, repository.PageQuery{Limit: 5, Offset: 20}},
		{"capped", 1000, 0, repository.PageQuery{Limit: 100, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newSessionDeps()
			d.sessions.On("ListAvailable", ctx, tt.wantQuery).
				Return(&repository.PageResult[model.SessionListing]{Items: []model.SessionListing{{}}, Total: 7}, nil)

			res, err := NewSessionService(d.sessions, d.bookings, d.trainers).ListAvailable(ctx, tt.limit, tt.offset)

			require.NoError(t, err)
			assert.Equal(t, 7, res.Total)
			assert.Len(t, res.Items, 1)
			d.assertExpectations(t)
		})
	}
}

func TestSessionService_ListForTrainer(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()

	d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
	d.sessions.On("ListByTrainer", ctx, "t-1").Return([]model.TrainingSession{{ID: "s-1"}, {ID: "s-2"}}, nil)
	d.bookings.On("ListByTrainer", ctx, "t-1").Return([]model.BookingWithClient{
		{Booking: model.Booking{ID: "b-1", SessionID: "s-1"}, Client: model.ClientSummary{FullName: "Ana"}},
		{Booking: model.Booking{ID: "b-2", SessionID: "s-1"}, Client: model.ClientSummary{FullName: "Ben"}},
	}, nil)

	out, err := NewSessionService(d.sessions, d.bookings, d.trainers).ListForTrainer(ctx, "u-1")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0].Bookings, 2)
	assert.Equal(t, "Ana", out[0].Bookings[0].Client.FullName)
	assert.NotNil(t, out[1].Bookings)
	assert.Empty(t, out[1].Bookings)
	d.assertExpectations(t)
}

func TestSessionService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		status     model.SessionStatus
		setupMocks func(d *sessionDeps)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:   "owner cancels",
			status: model.SessionCancelled,
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
				d.sessions.On("FindByID", ctx, "s-1").Return(&model.TrainingSession{ID: "s-1", TrainerID: "t-1", Status: model.SessionAvailable}, nil)
				d.sessions.On("UpdateStatus", ctx, "s-1", model.SessionCancelled).Return(nil)
			},
		},
		{
			name:   "other trainer",
			status: model.SessionCancelled,
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
				d.sessions.On("FindByID", ctx, "s-1").Return(&model.TrainingSession{ID: "s-1", TrainerID: "t-9"}, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:   "missing session",
			status: model.SessionCompleted,
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
				d.sessions.On("FindByID", ctx, "s-1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "unknown status",
			status:     "booked",
			setupMocks: func(d *sessionDeps) {},
			wantErr:    ErrValidation,
		},
		{
			name:   "client cannot update",
			status: model.SessionCancelled,
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotTrainer,
		},
		{
			name:   "repository failure",
			status: model.SessionCancelled,
			setupMocks: func(d *sessionDeps) {
				d.trainers.On("FindByUserID", ctx, "u-1").Return(&model.Trainer{ID: "t-1"}, nil)
				d.sessions.On("FindByID", ctx, "s-1").Return(&model.TrainingSession{ID: "s-1", TrainerID: "t-1"}, nil)
				d.sessions.On("UpdateStatus", ctx, "s-1", model.SessionCancelled).Return(errors.New("tx aborted"))
			},
			wantErrMsg: "tx aborted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newSessionDeps()
			tt.setupMocks(d)

			s, err := NewSessionService(d.sessions, d.bookings, d.trainers).UpdateStatus(ctx, "u-1", "s-1", tt.status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
			} else if tt.wantErrMsg != "" {
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, s)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.status, s.Status)
			}
			d.assertExpectations(t)
		})
	}
}

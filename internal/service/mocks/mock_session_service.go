package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fitbook/internal/model"
	"fitbook/internal/service"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, userID string, in service.CreateSessionInput) (*model.TrainingSession, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingSession), args.Error(1)
}

func (m *MockSessionService) ListAvailable(ctx context.Context, limit, offset int) (*service.SessionListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionListResult), args.Error(1)
}

func (m *MockSessionService) ListForTrainer(ctx context.Context, userID string) ([]model.TrainerSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrainerSession), args.Error(1)
}

func (m *MockSessionService) UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) (*model.TrainingSession, error) {
	args := m.Called(ctx, userID, sessionID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingSession), args.Error(1)
}

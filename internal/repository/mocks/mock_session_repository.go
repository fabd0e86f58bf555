package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *model.TrainingSession) (*model.TrainingSession, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingSession), args.Error(1)
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*model.TrainingSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingSession), args.Error(1)
}

func (m *MockSessionRepository) ListAvailable(ctx context.Context, page repository.PageQuery) (*repository.PageResult[model.SessionListing], error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.SessionListing]), args.Error(1)
}

func (m *MockSessionRepository) ListByTrainer(ctx context.Context, trainerID string) ([]model.TrainingSession, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrainingSession), args.Error(1)
}

func (m *MockSessionRepository) UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

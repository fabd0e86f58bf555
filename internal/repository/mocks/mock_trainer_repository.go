package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fitbook/internal/model"
	"fitbook/internal/repository"
)

type MockTrainerRepository struct {
	mock.Mock
}

func (m *MockTrainerRepository) FindByID(ctx context.Context, id string) (*model.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) FindByUserID(ctx context.Context, userID string) (*model.Trainer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) List(ctx context.Context, page repository.PageQuery) (*repository.PageResult[model.Trainer], error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Trainer]), args.Error(1)
}

func (m *MockTrainerRepository) UpdatePhoto(ctx context.Context, id, photoPath string) (string, error) {
	args := m.Called(ctx, id, photoPath)
	return args.String(0), args.Error(1)
}

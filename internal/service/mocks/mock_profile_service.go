package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"fitbook/internal/model"
	"fitbook/internal/service"
	"fitbook/internal/storage"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, userID string) (*service.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

func (m *MockProfileService) ListTrainers(ctx context.Context, limit, offset int) (*service.TrainerListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TrainerListResult), args.Error(1)
}

func (m *MockProfileService) GetTrainer(ctx context.Context, id string) (*model.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trainer), args.Error(1)
}

func (m *MockProfileService) UploadTrainerPhoto(ctx context.Context, userID string, photo service.PhotoUpload) (*model.Trainer, error) {
	args := m.Called(ctx, userID, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trainer), args.Error(1)
}

func (m *MockProfileService) TrainerPhoto(ctx context.Context, trainerID string) (io.ReadCloser, storage.Object, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, storage.Object{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.Object), args.Error(2)
}

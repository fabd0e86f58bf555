package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fitbook/internal/model"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Book(ctx context.Context, userID, sessionID string) (*model.Booking, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) ListForClient(ctx context.Context, userID string) ([]model.ClientBooking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClientBooking), args.Error(1)
}

func (m *MockBookingService) Confirm(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

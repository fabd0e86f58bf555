package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fitbook/internal/model"
	"fitbook/internal/service"
	serviceMocks "fitbook/internal/service/mocks"
)

const sessionID = "3c2b1a09-8f7e-4d6c-b5a4-93827160f5e4"

func TestListSessions(t *testing.T) {
	mockSvc := new(serviceMocks.MockSessionService)
	app := newApp(claimsFor(clientID, model.RoleClient))
	app.Get("/sessions", ListSessions(mockSvc))

	t.Run("success", func(t *testing.T) {
		res := &service.SessionListResult{
			Items: []model.SessionListing{{
				TrainingSession: model.TrainingSession{ID: sessionID, StartTime: "09:00", EndTime: "10:00", Status: model.SessionAvailable},
				Trainer:         model.TrainerSummary{Name: "Tom", Specialties: []string{"yoga"}, HourlyRate: 40},
			}},
			Total: 1,
		}
		mockSvc.On("ListAvailable", mock.Anything, 10, 0).Return(res, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sessions", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		items := got["data"].([]any)
		require.Len(t, items, 1)
		first := items[0].(map[string]any)
		assert.Equal(t, "09:00", first["start_time"])
		assert.Equal(t, "Tom", first["trainer"].(map[string]any)["name"])
		assert.Equal(t, float64(1), got["total"])
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sessions?limit=ten", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestCreateSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockSessionService)
	app := newApp(claimsFor(trainerID, model.RoleTrainer))
	app.Post("/sessions", CreateSession(mockSvc))

	in := service.CreateSessionInput{
		SessionDate: "2026-11-02",
		StartTime:   "09:00",
		EndTime:     "10:00",
		SessionType: model.SessionGroup,
		Price:       25,
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, trainerID, in).Return(&model.TrainingSession{
			ID:          sessionID,
			SessionDate: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
			StartTime:   "09:00",
			EndTime:     "10:00",
			SessionType: model.SessionGroup,
			Status:      model.SessionAvailable,
		}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/sessions", in))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got model.TrainingSession
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, sessionID, got.ID)
	})

	t.Run("end before start", func(t *testing.T) {
		bad := in
		bad.EndTime = "08:00"
		mockSvc.On("Create", mock.Anything, trainerID, bad).
			Return(nil, errors.Join(service.ErrValidation, errors.New("end_time must be after start_time"))).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/sessions", bad))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("caller has no trainer profile", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, trainerID, mock.Anything).Return(nil, service.ErrNotTrainer).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/sessions", map[string]any{"price": 10}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "NOT_TRAINER", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestMySessions(t *testing.T) {
	mockSvc := new(serviceMocks.MockSessionService)
	app := newApp(claimsFor(trainerID, model.RoleTrainer))
	app.Get("/sessions/mine", MySessions(mockSvc))

	t.Run("with bookings", func(t *testing.T) {
		mockSvc.On("ListForTrainer", mock.Anything, trainerID).Return([]model.TrainerSession{{
			TrainingSession: model.TrainingSession{ID: sessionID},
			Bookings: []model.BookingWithClient{{
				Booking: model.Booking{ID: "b-1", Status: model.BookingPending},
				Client:  model.ClientSummary{FullName: "Ana", Email: "ana@example.com"},
			}},
		}}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sessions/mine", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got struct {
			Data []model.TrainerSession `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got.Data, 1)
		assert.Equal(t, "Ana", got.Data[0].Bookings[0].Client.FullName)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		mockSvc.On("ListForTrainer", mock.Anything, trainerID).Return(nil, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sessions/mine", nil))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, []any{}, got["data"])
	})

	mockSvc.AssertExpectations(t)
}

func TestUpdateSessionStatus(t *testing.T) {
	mockSvc := new(serviceMocks.MockSessionService)
	app := newApp(claimsFor(trainerID, model.RoleTrainer))
	app.Patch("/sessions/:id/status", UpdateSessionStatus(mockSvc))

	t.Run("cancel", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, trainerID, sessionID, model.SessionCancelled).
			Return(&model.TrainingSession{ID: sessionID, Status: model.SessionCancelled}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, "/sessions/"+sessionID+"/status", statusRequest{Status: model.SessionCancelled}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("someone else's session", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, trainerID, sessionID, model.SessionCompleted).
			Return(nil, service.ErrForbidden).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, "/sessions/"+sessionID+"/status", statusRequest{Status: model.SessionCompleted}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPatch, "/sessions/42/status", statusRequest{Status: model.SessionCompleted}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

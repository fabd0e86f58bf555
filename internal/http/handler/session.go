package handler

import (
	"github.com/gofiber/fiber/v2"

	"fitbook/internal/http/middleware"
	"fitbook/internal/model"
	"fitbook/internal/service"
)

type statusRequest struct {
	Status model.SessionStatus `json:"status"`
}

// ListSessions godoc
// @Summary Available sessions, soonest first
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.SessionListResult
// @Failure 400 {object} errorPayload
// @Router /sessions [get]
func ListSessions(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageQuery(c)
		if err != nil {
			return invalidPage(c, err)
		}
		res, err := svc.ListAvailable(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateSession godoc
// @Summary Publish a training session
// @Tags sessions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.CreateSessionInput true "Session"
// @Success 201 {object} model.TrainingSession
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /sessions [post]
func CreateSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateSessionInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		s, err := svc.Create(c.UserContext(), middleware.ClaimsFrom(c).UserID(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// MySessions godoc
// @Summary Signed-in trainer's sessions with bookings
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.TrainerSession
// @Failure 403 {object} errorPayload
// @Router /sessions/mine [get]
func MySessions(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListForTrainer(c.UserContext(), middleware.ClaimsFrom(c).UserID())
		if err != nil {
			return writeServiceError(c, err)
		}
		if items == nil {
			items = []model.TrainerSession{}
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// UpdateSessionStatus godoc
// @Summary Change a session's status
// @Description Cancelling a session also cancels its active bookings.
// @Tags sessions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body statusRequest true "New status"
// @Success 200 {object} model.TrainingSession
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /sessions/{id}/status [patch]
func UpdateSessionStatus(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		s, err := svc.UpdateStatus(c.UserContext(), middleware.ClaimsFrom(c).UserID(), id, req.Status)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(s)
	}
}

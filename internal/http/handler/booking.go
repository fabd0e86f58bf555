package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"fitbook/internal/http/middleware"
	"fitbook/internal/model"
	"fitbook/internal/service"
)

// BookSession godoc
// @Summary Book a session
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} model.Booking
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /sessions/{id}/bookings [post]
func BookSession(svc service.BookingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		b, err := svc.Book(c.UserContext(), middleware.ClaimsFrom(c).UserID(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(b)
	}
}

// ListBookings godoc
// @Summary Signed-in client's bookings, newest first
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.ClientBooking
// @Router /bookings [get]
func ListBookings(svc service.BookingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListForClient(c.UserContext(), middleware.ClaimsFrom(c).UserID())
		if err != nil {
			return writeServiceError(c, err)
		}
		if items == nil {
			items = []model.ClientBooking{}
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// ConfirmBooking godoc
// @Summary Confirm a pending booking
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /bookings/{id}/confirm [post]
func ConfirmBooking(svc service.BookingService) fiber.Handler {
	return bookingAction(svc.Confirm)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Open to the booking's client and the session's trainer.
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /bookings/{id}/cancel [post]
func CancelBooking(svc service.BookingService) fiber.Handler {
	return bookingAction(svc.Cancel)
}

type bookingTransition func(ctx context.Context, userID, bookingID string) (*model.Booking, error)

func bookingAction(apply bookingTransition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		b, err := apply(c.UserContext(), middleware.ClaimsFrom(c).UserID(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(b)
	}
}

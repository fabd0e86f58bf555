package handler

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fitbook/internal/http/middleware"
	"fitbook/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceErrors maps service sentinels to status and code. Order matters only
// for errors wrapping more than one sentinel.
var serviceErrors = []struct {
	target error
	status int
	code   string
}{
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{sql.ErrNoRows, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN"},
	{service.ErrSessionUnavailable, fiber.StatusConflict, "SESSION_UNAVAILABLE"},
	{service.ErrAlreadyBooked, fiber.StatusConflict, "ALREADY_BOOKED"},
	{service.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{service.ErrEmailNotConfirmed, fiber.StatusForbidden, "EMAIL_NOT_CONFIRMED"},
	{service.ErrNotTrainer, fiber.StatusForbidden, "NOT_TRAINER"},
	{service.ErrOwnSession, fiber.StatusForbidden, "OWN_SESSION"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeServiceError translates an error returned by a service. Anything
// unrecognised is logged with the request id and reported as a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrValidation) {
		msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", msg)
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			return writeError(c, m.status, m.code, m.target.Error())
		}
	}

	zap.L().Error("request_failed",
		zap.String("request_id", middleware.RequestIDFrom(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return writeError(c, fiber.StatusGatewayTimeout, "TIMEOUT", "request timed out")
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "forbidden")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestTimeout, fiber.StatusGatewayTimeout:
			return writeError(c, status, "TIMEOUT", "request timed out")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			zap.L().Error("unhandled_error",
				zap.String("request_id", middleware.RequestIDFrom(c)),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrNotTrainer         = errors.New("only trainers can do this")
	ErrSessionUnavailable = errors.New("session is not available")
	ErrAlreadyBooked      = errors.New("session already booked")
	ErrOwnSession         = errors.New("cannot book your own session")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// invalid returns an ErrValidation carrying a client-safe detail.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

const defaultLimit = 10

const maxLimit = 100

// normalizePage applies the default limit and clamps offsets.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

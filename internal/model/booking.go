package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Active reports whether the booking still holds a place on its session.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking is a client's reservation against a training session.
type Booking struct {
	ID          string        `json:"id"`
	SessionID   string        `json:"session_id"`
	ClientID    string        `json:"client_id"`
	Status      BookingStatus `json:"status"`
	BookingDate time.Time     `json:"booking_date"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ClientSummary is the client projection shown on a trainer's dashboard.
type ClientSummary struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// BookingWithClient is a booking joined with the client who made it.
type BookingWithClient struct {
	Booking
	Client ClientSummary `json:"client"`
}

// ClientBooking is a booking joined with its session and trainer, as listed for the client.
type ClientBooking struct {
	Booking
	Session     TrainingSession `json:"session"`
	TrainerName string          `json:"trainer_name"`
}

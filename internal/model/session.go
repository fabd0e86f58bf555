package model

import "time"

// SessionType is the format of a training session.
type SessionType string

const (
	SessionPersonal SessionType = "personal"
	SessionGroup    SessionType = "group"
	SessionVirtual  SessionType = "virtual"
)

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	switch t {
	case SessionPersonal, SessionGroup, SessionVirtual:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of a training session.
type SessionStatus string

const (
	SessionAvailable SessionStatus = "available"
	SessionCancelled SessionStatus = "cancelled"
	SessionCompleted SessionStatus = "completed"
)

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionAvailable, SessionCancelled, SessionCompleted:
		return true
	}
	return false
}

// TrainingSession is a bookable time slot defined by a trainer.
// SessionDate is a calendar date (time component is zero); StartTime and EndTime are "HH:MM".
type TrainingSession struct {
	ID          string        `json:"id"`
	TrainerID   string        `json:"trainer_id"`
	SessionDate time.Time     `json:"session_date"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	SessionType SessionType   `json:"session_type"`
	Price       float64       `json:"price"`
	Notes       string        `json:"notes"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// TrainerSummary is the trainer projection shown next to an available session.
type TrainerSummary struct {
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
	HourlyRate  float64  `json:"hourly_rate"`
}

// SessionListing is an available session joined with its trainer.
type SessionListing struct {
	TrainingSession
	Trainer TrainerSummary `json:"trainer"`
}

// TrainerSession is a trainer's own session together with the bookings made against it.
type TrainerSession struct {
	TrainingSession
	Bookings []BookingWithClient `json:"bookings"`
}

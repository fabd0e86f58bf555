package model

import "time"

// Trainer is the public profile attached to a user who creates training sessions.
type Trainer struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Specialties []string  `json:"specialties"`
	Bio         string    `json:"bio"`
	HourlyRate  float64   `json:"hourly_rate"`
	PhotoPath   *string   `json:"-"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

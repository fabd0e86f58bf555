package model

import "time"

// User is an account able to sign in. Clients are users without a trainer profile.
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	FullName          string     `json:"full_name"`
	ConfirmationToken *string    `json:"-"`
	EmailConfirmedAt  *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Confirmed reports whether the user completed email confirmation.
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

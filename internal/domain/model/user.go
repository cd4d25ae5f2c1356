package model

import "time"

// User is keyed by username; the profile fields email and phone are also
// globally unique.
type User struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
}

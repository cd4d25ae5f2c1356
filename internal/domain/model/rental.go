package model

import "time"

// RentalUnit is immutable once posted: no update or delete paths exist.
type RentalUnit struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"` // owner
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Features    string    `json:"features"` // free-text, comma-separated
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

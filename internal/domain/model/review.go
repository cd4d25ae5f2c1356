package model

import "time"

type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingFair      Rating = "fair"
	RatingPoor      Rating = "poor"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingExcellent, RatingGood, RatingFair, RatingPoor:
		return true
	}
	return false
}

// Rank orders ratings best to worst, excellent=0 .. poor=3.
func (r Rating) Rank() int {
	switch r {
	case RatingExcellent:
		return 0
	case RatingGood:
		return 1
	case RatingFair:
		return 2
	case RatingPoor:
		return 3
	}
	return 4
}

type Review struct {
	ID          string    `json:"id"`
	RentalID    string    `json:"rental_id"`
	Username    string    `json:"username"` // author
	Rating      Rating    `json:"rating"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined for display in listings.
	AuthorFirstName *string `json:"author_first_name,omitempty"`
	AuthorLastName  *string `json:"author_last_name,omitempty"`
}

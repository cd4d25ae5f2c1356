package model

import "time"

// ActionKind names a daily-capped action. One counter row exists per
// (username, kind, calendar date); past-date rows are never consulted
// again, which is what resets the count at midnight.
type ActionKind string

const (
	KindPosting ActionKind = "posting"
	KindReview  ActionKind = "review"
)

// DailyCap is fixed policy, not configuration.
func (k ActionKind) DailyCap() int {
	switch k {
	case KindPosting:
		return 2
	case KindReview:
		return 3
	}
	return 0
}

// DayOf is the calendar-date key for counter rows, UTC YYYY-MM-DD.
func DayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type DailyCount struct {
	Username   string     `json:"username"`
	ActionKind ActionKind `json:"action_kind"`
	ActionDate string     `json:"action_date"`
	Count      int        `json:"count"`
}

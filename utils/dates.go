package utils

import (
	"time"
)

// DateOnlyLayout is the wire format for calendar dates.
const DateOnlyLayout = "2006-01-02"

// ParseDateOnly parses a YYYY-MM-DD string. Callers treat a failure as a
// validation error, never a server error.
func ParseDateOnly(s string) (time.Time, error) {
	return time.Parse(DateOnlyLayout, s)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

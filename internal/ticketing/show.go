package ticketing

import (
	"errors"
	"strings"
	"time"
)

// Errors returned by show validation. Handlers map them to the rejection
// reasons of the createShow operation.
var (
	// ErrNameRequired means the show name is empty after trimming.
	ErrNameRequired = errors.New("show name is required")
	// ErrInvalidSchedule means the start time is not strictly in the
	// future at creation time.
	ErrInvalidSchedule = errors.New("invalid show start date")
)

// ValidateShow checks the createShow inputs against the clock `now`.
// The name must be non-empty and the start strictly in the future; a show
// starting exactly at `now` is rejected.
func ValidateShow(name string, startsAt, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if !startsAt.After(now) {
		return ErrInvalidSchedule
	}
	return nil
}

// Started reports whether a show already started at the clock `now`.
// Sales close at the exact start time: a purchase at now == startsAt is
// already too late.
func Started(startsAt, now time.Time) bool {
	return !now.Before(startsAt)
}

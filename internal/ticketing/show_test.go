package ticketing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateShow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateShow("Hamlet", now.Add(time.Hour), now))

	assert.ErrorIs(t, ValidateShow("", now.Add(time.Hour), now), ErrNameRequired)
	assert.ErrorIs(t, ValidateShow("   ", now.Add(time.Hour), now), ErrNameRequired)

	assert.ErrorIs(t, ValidateShow("Hamlet", now.Add(-time.Hour), now), ErrInvalidSchedule)
	// a show starting exactly now is already too late to create
	assert.ErrorIs(t, ValidateShow("Hamlet", now, now), ErrInvalidSchedule)
}

func TestStarted(t *testing.T) {
	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	assert.False(t, Started(start, start.Add(-time.Minute)))
	// sales close at the exact start time
	assert.True(t, Started(start, start))
	assert.True(t, Started(start, start.Add(time.Minute)))
}

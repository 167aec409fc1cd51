package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDayUsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 01:30 UTC on the 10th is 22:30 on the 9th in UTC-3.
	at := time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)

	got := StartOfDay(at, loc)

	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, loc), got)
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, at, Fixed{At: at}.Now())
}

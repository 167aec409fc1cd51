package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type window struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	Date      string `json:"date" validate:"omitempty,isodate"`
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&window{DayOfWeek: 1, StartTime: "08:30", Date: "2025-03-10"})
	assert.NoError(t, err)
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&window{DayOfWeek: 9, StartTime: "8:30", Date: "10/03/2025"})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "day_of_week must be less than or equal to 6", msgs["day_of_week"])
	assert.Equal(t, "start_time must be a time in HH:MM format", msgs["start_time"])
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", msgs["date"])
}

func TestHHMMRejectsOutOfRangeHour(t *testing.T) {
	v := NewValidator()

	assert.Error(t, v.Validate(&window{StartTime: "24:00"}))
	assert.Error(t, v.Validate(&window{StartTime: "12:60"}))
}

package service

import (
	"strings"
	"testing"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentsCalendarEvents(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	doctor := &entity.DoctorProfile{
		UserID: uuid.New(),
		Schedules: []entity.DoctorSchedule{
			{DayOfWeek: int(time.Monday), StartTime: "08:00", EndTime: "12:00", SlotDuration: 45},
		},
	}
	id := uuid.New()
	appointments := []entity.Appointment{
		{
			ID:          id,
			ScheduledAt: time.Date(2025, 3, 10, 9, 0, 0, 0, loc),
			Status:      entity.AppointmentStatusConfirmed,
			Notes:       "bring previous exams",
			Patient:     entity.PatientProfile{User: entity.User{FullName: "Maria Santos"}},
		},
	}

	out := NewCalendarService("Clinica Vida", quietLogger()).AppointmentsCalendar(doctor, appointments, loc)

	cal, err := ics.ParseCalendar(strings.NewReader(string(out)))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, id.String()+"@medical-appointment-scheduler", events[0].Id())
	assert.Equal(t, "Appointment with Maria Santos", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Contains(t, string(out), "DTSTART:20250310T120000Z")
	assert.Contains(t, string(out), "DTEND:20250310T124500Z")
}

func TestEventMinutesFallsBackOutsideSchedule(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	schedules := []entity.DoctorSchedule{
		{DayOfWeek: int(time.Monday), StartTime: "08:00", EndTime: "12:00", SlotDuration: 20},
		{DayOfWeek: int(time.Monday), StartTime: "14:00", EndTime: "18:00", SlotDuration: 40},
	}

	assert.Equal(t, 20, EventMinutes(schedules, time.Date(2025, 3, 10, 11, 40, 0, 0, loc), loc))
	assert.Equal(t, 40, EventMinutes(schedules, time.Date(2025, 3, 10, 14, 0, 0, 0, loc), loc))
	assert.Equal(t, 30, EventMinutes(schedules, time.Date(2025, 3, 10, 12, 0, 0, 0, loc), loc))
	assert.Equal(t, 30, EventMinutes(schedules, time.Date(2025, 3, 11, 9, 0, 0, 0, loc), loc))
}

package service

import (
	"testing"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAppointmentsWorkbookRows(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	appointments := []entity.Appointment{
		{
			ScheduledAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			Status:      entity.AppointmentStatusScheduled,
			Notes:       "first visit",
			Patient: entity.PatientProfile{
				Phone: "(11) 98888-7777",
				User:  entity.User{FullName: "Maria Santos", Email: "maria@example.com"},
			},
		},
	}

	buf, err := NewExportService(quietLogger()).AppointmentsWorkbook("Dr. Carlos Silva", appointments, loc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{appointmentSheet}, f.GetSheetList())

	title, _ := f.GetCellValue(appointmentSheet, "A1")
	assert.Equal(t, "Agenda - Dr. Carlos Silva", title)

	header, _ := f.GetCellValue(appointmentSheet, "C2")
	assert.Equal(t, "Patient", header)

	rows, err := f.GetRows(appointmentSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2025-03-10", "09:00", "Maria Santos", "maria@example.com", "(11) 98888-7777", "SCHEDULED", "first visit"}, rows[2])
}

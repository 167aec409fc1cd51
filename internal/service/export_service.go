package service

import (
	"bytes"
	"fmt"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const appointmentSheet = "Appointments"

// ExportService renders a doctor's agenda as an xlsx workbook.
type ExportService interface {
	AppointmentsWorkbook(doctorName string, appointments []entity.Appointment, loc *time.Location) (*bytes.Buffer, error)
}

type exportService struct {
	log *logrus.Logger
}

func NewExportService(log *logrus.Logger) ExportService {
	return &exportService{log: log}
}

func (s *exportService) AppointmentsWorkbook(doctorName string, appointments []entity.Appointment, loc *time.Location) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(appointmentSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(appointmentSheet, "A1", fmt.Sprintf("Agenda - %s", doctorName))
	headers := []string{"Date", "Time", "Patient", "Email", "Phone", "Status", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(appointmentSheet, cell, h)
	}
	f.SetCellStyle(appointmentSheet, "A2", "G2", headerStyle)
	f.SetColWidth(appointmentSheet, "A", "B", 12)
	f.SetColWidth(appointmentSheet, "C", "D", 28)
	f.SetColWidth(appointmentSheet, "E", "F", 16)
	f.SetColWidth(appointmentSheet, "G", "G", 40)

	for i, a := range appointments {
		row := i + 3
		at := a.ScheduledAt.In(loc)
		values := []interface{}{
			at.Format("2006-01-02"),
			at.Format("15:04"),
			a.Patient.User.FullName,
			a.Patient.User.Email,
			a.Patient.Phone,
			string(a.Status),
			a.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(appointmentSheet, cell, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.log.Errorf("Failed to write workbook: %+v", err)
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

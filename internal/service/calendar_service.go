package service

import (
	"fmt"
	"strings"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	ics "github.com/arran4/golang-ical"
	"github.com/sirupsen/logrus"
)

const defaultEventMinutes = 30

// CalendarService renders a doctor's agenda as an iCalendar feed.
type CalendarService interface {
	AppointmentsCalendar(doctor *entity.DoctorProfile, appointments []entity.Appointment, loc *time.Location) []byte
}

type calendarService struct {
	clinicName string
	log        *logrus.Logger
}

func NewCalendarService(clinicName string, log *logrus.Logger) CalendarService {
	return &calendarService{clinicName: clinicName, log: log}
}

// AppointmentsCalendar emits one VEVENT per appointment. An event lasts the
// slot duration of the schedule window it falls in.
func (s *calendarService) AppointmentsCalendar(doctor *entity.DoctorProfile, appointments []entity.Appointment, loc *time.Location) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//Agenda//EN", s.clinicName))

	for _, a := range appointments {
		event := cal.AddEvent(a.ID.String() + "@medical-appointment-scheduler")
		event.SetDtStampTime(a.UpdatedAt)
		event.SetStartAt(a.ScheduledAt)
		event.SetEndAt(a.ScheduledAt.Add(time.Duration(EventMinutes(doctor.Schedules, a.ScheduledAt, loc)) * time.Minute))
		event.SetSummary(fmt.Sprintf("Appointment with %s", a.Patient.User.FullName))

		description := []string{"Status: " + string(a.Status)}
		if a.Notes != "" {
			description = append(description, a.Notes)
		}
		event.SetDescription(strings.Join(description, "\n"))
	}

	s.log.Debugf("Rendered calendar for doctor %s with %d events", doctor.UserID, len(appointments))
	return []byte(cal.Serialize())
}

// EventMinutes is the slot duration of the window containing at, or 30.
func EventMinutes(schedules []entity.DoctorSchedule, at time.Time, loc *time.Location) int {
	local := at.In(loc)
	clock := ClockOf(local, loc)
	for _, sc := range schedules {
		if sc.DayOfWeek != int(local.Weekday()) || sc.SlotDuration <= 0 {
			continue
		}
		if WithinSchedules([]entity.DoctorSchedule{sc}, clock) {
			return sc.SlotDuration
		}
	}
	return defaultEventMinutes
}

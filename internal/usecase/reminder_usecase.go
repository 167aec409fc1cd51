package usecase

import (
	"context"
	"fmt"
	"time"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/service"
	"medical-appointment-scheduler/pkg/clock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const reminderSubject = "Appointment reminder"

type ReminderUsecase interface {
	// GetTomorrowReminders lists tomorrow's SCHEDULED appointments with the
	// message that would be sent. Nothing is sent.
	GetTomorrowReminders(ctx context.Context) (*dto.ReminderListResponse, error)
	SendTomorrowReminders(ctx context.Context) (*dto.ReminderSendResponse, error)
}

type reminderUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	clock           clock.Clock
	appointmentRepo repository.AppointmentRepository
	notifier        service.Notifier
}

func NewReminderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	clk clock.Clock,
	appointmentRepo repository.AppointmentRepository,
	notifier service.Notifier,
) ReminderUsecase {
	return &reminderUsecase{
		db:              db,
		log:             log,
		loc:             loc,
		clock:           clk,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
	}
}

func (u *reminderUsecase) tomorrow(ctx context.Context) (time.Time, []entity.Appointment, error) {
	_, tomorrowStart := dayBounds(u.clock.Now(), u.loc)
	from, to := dayBounds(tomorrowStart, u.loc)

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, entity.AppointmentFilter{
		Statuses: []entity.AppointmentStatus{entity.AppointmentStatusScheduled},
		From:     &from,
		To:       &to,
	})
	if err != nil {
		u.log.Warnf("Failed to find tomorrow's appointments: %+v", err)
		return from, nil, err
	}
	return from, appointments, nil
}

func (u *reminderUsecase) message(a *entity.Appointment) string {
	return fmt.Sprintf("Reminder: your appointment with %s (%s) is tomorrow at %s. Please arrive 15 minutes early.",
		a.Doctor.User.FullName, a.Doctor.Specialty, a.ScheduledAt.In(u.loc).Format("15:04"))
}

func (u *reminderUsecase) GetTomorrowReminders(ctx context.Context) (*dto.ReminderListResponse, error) {
	day, appointments, err := u.tomorrow(ctx)
	if err != nil {
		return nil, err
	}

	reminders := make([]dto.ReminderResponse, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		reminders[i] = dto.ReminderResponse{
			AppointmentID: a.ID,
			Patient:       a.Patient.User.FullName,
			Email:         a.Patient.User.Email,
			Phone:         a.Patient.Phone,
			Doctor:        a.Doctor.User.FullName,
			Specialty:     a.Doctor.Specialty,
			ScheduledAt:   a.ScheduledAt,
			Message:       u.message(a),
		}
	}

	return &dto.ReminderListResponse{
		Date:      day.Format("2006-01-02"),
		Reminders: reminders,
		Total:     len(reminders),
	}, nil
}

// SendTomorrowReminders notifies every patient in turn. A failed delivery is
// reported in its result and does not stop the others.
func (u *reminderUsecase) SendTomorrowReminders(ctx context.Context) (*dto.ReminderSendResponse, error) {
	_, appointments, err := u.tomorrow(ctx)
	if err != nil {
		return nil, err
	}

	response := &dto.ReminderSendResponse{Results: make([]dto.ReminderSendResult, 0, len(appointments))}
	for i := range appointments {
		a := &appointments[i]
		msg := u.message(a)
		result := dto.ReminderSendResult{
			AppointmentID: a.ID,
			Patient:       a.Patient.User.FullName,
			Email:         a.Patient.User.Email,
			Phone:         a.Patient.Phone,
			Message:       msg,
		}

		err := u.notifier.Notify(ctx, service.Notification{
			Name:    a.Patient.User.FullName,
			Email:   a.Patient.User.Email,
			Phone:   a.Patient.Phone,
			Subject: reminderSubject,
			Body:    msg,
		})
		if err != nil {
			u.log.Warnf("Failed to send reminder for appointment %s: %+v", a.ID, err)
			result.Error = err.Error()
			response.Failed++
		} else {
			result.Sent = true
			response.Sent++
		}
		response.Results = append(response.Results, result)
	}

	u.log.Infof("Reminders processed: sent=%d, failed=%d", response.Sent, response.Failed)
	return response, nil
}

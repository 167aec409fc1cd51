package usecase

import (
	"context"
	"time"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	// GetSlots lists the doctor's slots on date (YYYY-MM-DD, clinic time zone).
	GetSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.SlotResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	loc               *time.Location
	doctorProfileRepo repository.DoctorProfileRepository
	scheduleRepo      repository.DoctorScheduleRepository
	appointmentRepo   repository.AppointmentRepository
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	doctorProfileRepo repository.DoctorProfileRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		loc:               loc,
		doctorProfileRepo: doctorProfileRepo,
		scheduleRepo:      scheduleRepo,
		appointmentRepo:   appointmentRepo,
	}
}

func (u *availabilityUsecase) GetSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.SlotResponse, error) {
	day, err := parseDate(date, u.loc)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	schedules, err := u.scheduleRepo.FindByDoctorAndDay(ctx, u.db, doctorID, int(day.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to find schedules for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	from, to := dayBounds(day, u.loc)
	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, entity.AppointmentFilter{
		DoctorID: &doctorID,
		Statuses: entity.ActiveAppointmentStatuses,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	booked := make(map[string]bool, len(appointments))
	for _, a := range appointments {
		booked[service.ClockOf(a.ScheduledAt, u.loc)] = true
	}

	slots := service.GenerateSlots(schedules, booked)
	response := make([]dto.SlotResponse, len(slots))
	for i, s := range slots {
		response[i] = dto.SlotResponse{Time: s.Time, Available: s.Available}
	}
	return response, nil
}

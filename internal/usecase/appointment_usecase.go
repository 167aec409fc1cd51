package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotAlreadyBooked   = errors.New("slot already booked")
	ErrOutsideWorkingHours = errors.New("outside doctor's working hours")
	ErrInvalidScheduledAt  = errors.New("invalid scheduled_at, use RFC3339 or YYYY-MM-DDTHH:MM")
	ErrInvalidStatus       = errors.New("invalid appointment status")
)

// activeSlotConstraint is the partial unique index over active appointments.
const activeSlotConstraint = "active_slot"

var scheduledAtLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
	ListMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	loc                *time.Location
	txManager          repository.TransactionManager
	appointmentRepo    repository.AppointmentRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	scheduleRepo       repository.DoctorScheduleRepository
	slotLock           service.SlotLockService
	notifier           service.Notifier
	auditService       service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	txManager repository.TransactionManager,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	slotLock service.SlotLockService,
	notifier service.Notifier,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		loc:                loc,
		txManager:          txManager,
		appointmentRepo:    appointmentRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		scheduleRepo:       scheduleRepo,
		slotLock:           slotLock,
		notifier:           notifier,
		auditService:       auditService,
	}
}

// parseScheduledAt accepts an RFC3339 instant or a wall-clock time in loc.
// Seconds are dropped so every booking sits on a whole minute.
func parseScheduledAt(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Truncate(time.Minute), nil
	}
	for _, layout := range scheduledAtLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}
	return time.Time{}, ErrInvalidScheduledAt
}

// BookAppointment validates and creates an appointment.
//
// Flow:
// 1. Parse ids and scheduled_at
// 2. Doctor and patient must exist
// 3. No active appointment at the exact instant
// 4. The local weekday and HH:MM fall inside a schedule window [start, end)
// 5. Redis slot lock so concurrent requests serialize across instances
// 6. Insert; the partial unique index turns a lost race into 23505
// 7. Notify after commit; a failed notification never undoes the booking
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	if caller.IsPatient() && caller.UserID != patientID {
		return nil, ErrForbidden
	}

	scheduledAt, err := parseScheduledAt(req.ScheduledAt, u.loc)
	if err != nil {
		return nil, err
	}

	// Step 2
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	// Step 3
	existing, err := u.appointmentRepo.FindActiveAt(ctx, u.db, doctorID, scheduledAt)
	if err != nil {
		u.log.Warnf("Failed to check slot occupancy: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotAlreadyBooked
	}

	// Step 4
	local := scheduledAt.In(u.loc)
	schedules, err := u.scheduleRepo.FindByDoctorAndDay(ctx, u.db, doctorID, int(local.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to find schedules for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if !service.WithinSchedules(schedules, service.ClockOf(scheduledAt, u.loc)) {
		return nil, ErrOutsideWorkingHours
	}

	// Step 5
	release, err := u.slotLock.Acquire(ctx, doctorID, scheduledAt)
	switch {
	case errors.Is(err, service.ErrSlotLocked):
		return nil, ErrSlotAlreadyBooked
	case err != nil:
		// The unique index still guards the insert.
		u.log.Warnf("Booking without slot lock for doctor %s at %s: %+v", doctorID, scheduledAt, err)
	default:
		defer release()
	}

	// Step 6
	appointment := &entity.Appointment{
		DoctorID:    doctorID,
		PatientID:   patientID,
		ScheduledAt: scheduledAt,
		Status:      entity.AppointmentStatusScheduled,
		Notes:       req.Notes,
	}
	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &caller.UserID, entity.AuditActionAppointmentCreate, "appointment",
			appointment.ID.String(), converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			return nil, ErrSlotAlreadyBooked
		}
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		if isForeignKeyError(err, "patient") {
			return nil, ErrPatientNotFound
		}
		u.log.Errorf("Failed to create appointment: %+v", err)
		return nil, err
	}

	appointment.Doctor = *doctor
	appointment.Patient = *patient
	u.log.Infof("Appointment booked: id=%s, doctor=%s, patient=%s, at=%s", appointment.ID, doctorID, patientID, local.Format(time.RFC3339))

	// Step 7
	if err := u.notifier.Notify(ctx, u.confirmation(appointment)); err != nil {
		u.log.Warnf("Failed to send confirmation for appointment %s: %+v", appointment.ID, err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) confirmation(a *entity.Appointment) service.Notification {
	local := a.ScheduledAt.In(u.loc)
	return service.Notification{
		Name:    a.Patient.User.FullName,
		Email:   a.Patient.User.Email,
		Phone:   a.Patient.Phone,
		Subject: "Appointment confirmed",
		Body: fmt.Sprintf("Hello %s, your appointment with %s (%s) is confirmed for %s at %s.",
			a.Patient.User.FullName, a.Doctor.User.FullName, a.Doctor.Specialty,
			local.Format("Monday, 02 Jan 2006"), local.Format("15:04")),
	}
}

// UpdateStatus overwrites the status. Any status may follow any other; the
// only rejection is re-activating into a slot another appointment holds.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	status := entity.AppointmentStatus(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	switch {
	case caller.IsAdmin():
	case caller.IsDoctor():
		if appointment.DoctorID != caller.UserID {
			return nil, ErrForbidden
		}
	case caller.IsPatient():
		if appointment.PatientID != caller.UserID || status != entity.AppointmentStatusCancelled {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	previous := appointment.Status
	if status.Active() && !previous.Active() {
		holder, err := u.appointmentRepo.FindActiveAt(ctx, u.db, appointment.DoctorID, appointment.ScheduledAt)
		if err != nil {
			u.log.Warnf("Failed to check slot occupancy: %+v", err)
			return nil, err
		}
		if holder != nil && holder.ID != appointment.ID {
			return nil, ErrSlotAlreadyBooked
		}
	}

	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.appointmentRepo.UpdateStatus(ctx, tx, appointmentID, status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAppointmentNotFound
		}
		return u.auditService.LogUpdate(ctx, tx, &caller.UserID, entity.AuditActionAppointmentStatus, "appointment",
			appointmentID.String(), string(previous), string(status))
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		if isDuplicateKeyError(err, activeSlotConstraint) {
			return nil, ErrSlotAlreadyBooked
		}
		u.log.Errorf("Failed to update appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	appointment.Status = status
	u.log.Infof("Appointment status changed: id=%s, %s -> %s", appointmentID, previous, status)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.UpdateStatus(ctx, appointmentID, &dto.UpdateAppointmentStatusRequest{Status: string(entity.AppointmentStatusCancelled)})
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if (caller.IsPatient() && appointment.PatientID != caller.UserID) ||
		(caller.IsDoctor() && appointment.DoctorID != caller.UserID) {
		return nil, ErrForbidden
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments filters by doctor, patient and local date. Patients and
// doctors only ever see their own appointments.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	var filter entity.AppointmentFilter
	if query.DoctorID != "" {
		id, err := uuid.Parse(query.DoctorID)
		if err != nil {
			return nil, ErrDoctorNotFound
		}
		filter.DoctorID = &id
	}
	if query.PatientID != "" {
		id, err := uuid.Parse(query.PatientID)
		if err != nil {
			return nil, ErrPatientNotFound
		}
		filter.PatientID = &id
	}
	if query.Date != "" {
		day, err := parseDate(query.Date, u.loc)
		if err != nil {
			return nil, err
		}
		from, to := dayBounds(day, u.loc)
		filter.From, filter.To = &from, &to
	}

	switch {
	case caller.IsPatient():
		filter.PatientID = &caller.UserID
	case caller.IsDoctor():
		filter.DoctorID = &caller.UserID
	}

	return u.list(ctx, filter)
}

func (u *appointmentUsecase) ListMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	var filter entity.AppointmentFilter
	switch {
	case caller.IsPatient():
		filter.PatientID = &caller.UserID
	case caller.IsDoctor():
		filter.DoctorID = &caller.UserID
	default:
		return nil, ErrForbidden
	}

	return u.list(ctx, filter)
}

func (u *appointmentUsecase) list(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

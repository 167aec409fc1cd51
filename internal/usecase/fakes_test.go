package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func asActor(userID uuid.UUID, roleID int) context.Context {
	return asActorWithToken(userID, roleID, "token-id")
}

func asActorWithToken(userID uuid.UUID, roleID int, tokenID string) context.Context {
	return middleware.WithIdentity(context.Background(), userID, "user@clinic.test", roleID, tokenID)
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// memAppointmentRepo keeps appointments in memory and enforces the active
// slot unique index the way PostgreSQL would.
type memAppointmentRepo struct {
	mu   sync.Mutex
	rows []entity.Appointment
}

func (r *memAppointmentRepo) activeAt(doctorID uuid.UUID, at time.Time, except uuid.UUID) *entity.Appointment {
	for i := range r.rows {
		a := &r.rows[i]
		if a.ID != except && a.DoctorID == doctorID && a.ScheduledAt.Equal(at) && a.Status.Active() {
			return a
		}
	}
	return nil
}

func activeSlotViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_active_slot"}
}

func (r *memAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appointment.Status.Active() && r.activeAt(appointment.DoctorID, appointment.ScheduledAt, uuid.Nil) != nil {
		return activeSlotViolation()
	}
	appointment.ID = uuid.New()
	r.rows = append(r.rows, *appointment)
	return nil
}

func (r *memAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memAppointmentRepo) FindActiveAt(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, at time.Time) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a := r.activeAt(doctorID, at, uuid.Nil); a != nil {
		found := *a
		return &found, nil
	}
	return nil, nil
}

func (r *memAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.rows {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.From != nil && a.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !a.ScheduledAt.Before(*filter.To) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				match = match || a.Status == s
			}
			if !match {
				continue
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *memAppointmentRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		a := &r.rows[i]
		if a.ID != id {
			continue
		}
		if status.Active() && r.activeAt(a.DoctorID, a.ScheduledAt, a.ID) != nil {
			return 0, activeSlotViolation()
		}
		a.Status = status
		return 1, nil
	}
	return 0, nil
}

func (r *memAppointmentRepo) CountByStatus(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (map[entity.AppointmentStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[entity.AppointmentStatus]int64)
	for _, a := range r.rows {
		if a.DoctorID == doctorID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

type fakeDoctorProfileRepo struct {
	profiles map[uuid.UUID]*entity.DoctorProfile
	createFn func(profile *entity.DoctorProfile) error
}

func (r *fakeDoctorProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	if r.createFn != nil {
		return r.createFn(profile)
	}
	profile.User.ID = uuid.New()
	profile.UserID = profile.User.ID
	return nil
}

func (r *fakeDoctorProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return nil, nil
}

func (r *fakeDoctorProfileRepo) FindAllActive(ctx context.Context, db *gorm.DB, specialty string) ([]entity.DoctorProfile, error) {
	var out []entity.DoctorProfile
	for _, p := range r.profiles {
		if specialty == "" || p.Specialty == specialty {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakePatientProfileRepo struct {
	profiles map[uuid.UUID]*entity.PatientProfile
	createFn func(profile *entity.PatientProfile) error
}

func (r *fakePatientProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	if r.createFn != nil {
		return r.createFn(profile)
	}
	profile.User.ID = uuid.New()
	profile.UserID = profile.User.ID
	return nil
}

func (r *fakePatientProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return nil, nil
}

func (r *fakePatientProfileRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.PatientProfile, error) {
	var out []entity.PatientProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.FullName < out[j].User.FullName })
	return out, nil
}

type fakeScheduleRepo struct {
	schedules []entity.DoctorSchedule
	replaced  []entity.DoctorSchedule
}

func (r *fakeScheduleRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error) {
	var out []entity.DoctorSchedule
	for _, s := range r.schedules {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.DoctorSchedule, error) {
	var out []entity.DoctorSchedule
	for _, s := range r.schedules {
		if s.DoctorID == doctorID && s.DayOfWeek == dayOfWeek {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ReplaceForDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, schedules []entity.DoctorSchedule) error {
	kept := r.schedules[:0]
	for _, s := range r.schedules {
		if s.DoctorID != doctorID {
			kept = append(kept, s)
		}
	}
	r.schedules = append(kept, schedules...)
	r.replaced = schedules
	return nil
}

type fakeUserRepo struct {
	users             map[uuid.UUID]*entity.User
	updatePasswordErr error
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		found := *u
		return &found, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hashedPassword string) error {
	if r.updatePasswordErr != nil {
		return r.updatePasswordErr
	}
	r.users[id].Password = hashedPassword
	return nil
}

type fakeMedicalRecordRepo struct {
	records   []entity.MedicalRecord
	createErr error
}

func (r *fakeMedicalRecordRepo) Create(ctx context.Context, db *gorm.DB, record *entity.MedicalRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	record.ID = uuid.New()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeMedicalRecordRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalRecord, error) {
	var out []entity.MedicalRecord
	for _, rec := range r.records {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSlotLock struct {
	err      error
	released int
}

func (l *fakeSlotLock) Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.released++ }, nil
}

type fakeNotifier struct {
	sent []service.Notification
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, notification service.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification)
	return nil
}

type auditEntry struct {
	action   string
	entityID string
}

type fakeAuditService struct {
	entries []auditEntry
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID})
	return nil
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID})
	return nil
}

func (s *fakeAuditService) actions() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.action
	}
	return out
}

package repository

import (
	"context"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindActiveAt returns the SCHEDULED or CONFIRMED appointment of the doctor
	// at exactly the given instant, or nil.
	FindActiveAt(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, at time.Time) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (map[entity.AppointmentStatus]int64, error)
}

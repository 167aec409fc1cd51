package repository

import (
	"context"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error)
	FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.DoctorSchedule, error)
	// ReplaceForDoctor deletes every window of the doctor and inserts the
	// given ones. Call it inside a transaction.
	ReplaceForDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, schedules []entity.DoctorSchedule) error
}

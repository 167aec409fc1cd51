package repository

import (
	"context"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	// Create inserts the profile together with its embedded User.
	Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAllActive(ctx context.Context, db *gorm.DB, specialty string) ([]entity.DoctorProfile, error)
}

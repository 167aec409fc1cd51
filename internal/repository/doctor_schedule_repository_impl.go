package repository

import (
	"context"

	"medical-appointment-scheduler/internal/domain/entity"
	domainRepo "medical-appointment-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorScheduleRepository struct{}

func NewDoctorScheduleRepository() domainRepo.DoctorScheduleRepository {
	return &doctorScheduleRepository{}
}

func (r *doctorScheduleRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error) {
	var schedules []entity.DoctorSchedule
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *doctorScheduleRepository) FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.DoctorSchedule, error) {
	var schedules []entity.DoctorSchedule
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek).
		Order("start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *doctorScheduleRepository) ReplaceForDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, schedules []entity.DoctorSchedule) error {
	if err := db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&entity.DoctorSchedule{}).Error; err != nil {
		return err
	}
	if len(schedules) == 0 {
		return nil
	}
	for i := range schedules {
		schedules[i].DoctorID = doctorID
	}
	return db.WithContext(ctx).Create(&schedules).Error
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidScheduleWindow = errors.New("schedule start time must be before end time")

type DoctorScheduleUsecase interface {
	GetSchedulesByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleListResponse, error)
	ReplaceSchedules(ctx context.Context, doctorID uuid.UUID, req *dto.ReplaceSchedulesRequest) (*dto.ScheduleListResponse, error)
}

type doctorScheduleUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	txManager         repository.TransactionManager
	scheduleRepo      repository.DoctorScheduleRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	txManager repository.TransactionManager,
	scheduleRepo repository.DoctorScheduleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorScheduleUsecase {
	return &doctorScheduleUsecase{
		db:                db,
		log:               log,
		txManager:         txManager,
		scheduleRepo:      scheduleRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

func (u *doctorScheduleUsecase) ensureDoctor(ctx context.Context, doctorID uuid.UUID) error {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	return nil
}

// GetSchedulesByDoctor lists the weekly windows ordered by weekday and start.
func (u *doctorScheduleUsecase) GetSchedulesByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleListResponse, error) {
	if err := u.ensureDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	schedules, err := u.scheduleRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedules for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

// ReplaceSchedules swaps the doctor's whole weekly schedule atomically.
// Existing appointments are kept even if they fall outside the new windows.
func (u *doctorScheduleUsecase) ReplaceSchedules(ctx context.Context, doctorID uuid.UUID, req *dto.ReplaceSchedulesRequest) (*dto.ScheduleListResponse, error) {
	schedules := make([]entity.DoctorSchedule, 0, len(req.Schedules))
	for i, s := range req.Schedules {
		start, err := service.ParseClock(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("schedules[%d]: %w", i, err)
		}
		end, err := service.ParseClock(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("schedules[%d]: %w", i, err)
		}
		if start >= end {
			return nil, fmt.Errorf("schedules[%d] %s-%s: %w", i, s.StartTime, s.EndTime, ErrInvalidScheduleWindow)
		}

		maxPatients := s.MaxPatients
		if maxPatients == 0 {
			maxPatients = 1
		}
		schedules = append(schedules, entity.DoctorSchedule{
			DoctorID:     doctorID,
			DayOfWeek:    *s.DayOfWeek,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			SlotDuration: s.SlotDuration,
			MaxPatients:  maxPatients,
		})
	}

	if err := u.ensureDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	var saved []entity.DoctorSchedule
	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		previous, err := u.scheduleRepo.FindByDoctorID(ctx, tx, doctorID)
		if err != nil {
			return err
		}
		if err := u.scheduleRepo.ReplaceForDoctor(ctx, tx, doctorID, schedules); err != nil {
			return err
		}
		saved, err = u.scheduleRepo.FindByDoctorID(ctx, tx, doctorID)
		if err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionScheduleReplace, "doctor_schedule", doctorID.String(),
			converter.SchedulesToResponses(previous), converter.SchedulesToResponses(saved))
	})
	if err != nil {
		u.log.Warnf("Failed to replace schedules for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	u.log.Infof("Schedule replaced: doctor=%s, windows=%d", doctorID, len(saved))
	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(saved),
		Total:     len(saved),
	}, nil
}

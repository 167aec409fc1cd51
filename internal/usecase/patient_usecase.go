package usecase

import (
	"context"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/pkg/clock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientUsecase interface {
	GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error)
}

type patientUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	clock              clock.Clock
	patientProfileRepo repository.PatientProfileRepository
}

func NewPatientUsecase(db *gorm.DB, log *logrus.Logger, clk clock.Clock, patientProfileRepo repository.PatientProfileRepository) PatientUsecase {
	return &patientUsecase{
		db:                 db,
		log:                log,
		clock:              clk,
		patientProfileRepo: patientProfileRepo,
	}
}

func (u *patientUsecase) GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	patients, err := u.patientProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientProfilesToResponses(patients, u.clock.Now()),
		Total:    len(patients),
	}, nil
}

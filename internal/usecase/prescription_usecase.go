package usecase

import (
	"bytes"
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
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrAppointmentMismatch  = errors.New("appointment does not belong to this doctor and patient")
)

type PrescriptionUsecase interface {
	CreatePrescription(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetPrescriptionsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.PrescriptionListResponse, error)
	// RenderPDF returns a printable prescription and its file name.
	RenderPDF(ctx context.Context, prescriptionID uuid.UUID) (*bytes.Buffer, string, error)
}

type prescriptionUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	loc                *time.Location
	txManager          repository.TransactionManager
	prescriptionRepo   repository.PrescriptionRepository
	patientProfileRepo repository.PatientProfileRepository
	appointmentRepo    repository.AppointmentRepository
	pdfService         service.PrescriptionPDFService
	auditService       service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	txManager repository.TransactionManager,
	prescriptionRepo repository.PrescriptionRepository,
	patientProfileRepo repository.PatientProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	pdfService service.PrescriptionPDFService,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:                 db,
		log:                log,
		loc:                loc,
		txManager:          txManager,
		prescriptionRepo:   prescriptionRepo,
		patientProfileRepo: patientProfileRepo,
		appointmentRepo:    appointmentRepo,
		pdfService:         pdfService,
		auditService:       auditService,
	}
}

// CreatePrescription is issued by the calling doctor.
func (u *prescriptionUsecase) CreatePrescription(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.IsDoctor() {
		return nil, ErrForbidden
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	prescription := &entity.Prescription{
		DoctorID:     caller.UserID,
		PatientID:    patientID,
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
	}

	if req.AppointmentID != "" {
		appointmentID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			return nil, ErrAppointmentNotFound
		}
		appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.DoctorID != caller.UserID || appointment.PatientID != patientID {
			return nil, ErrAppointmentMismatch
		}
		prescription.AppointmentID = &appointmentID
	}

	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.prescriptionRepo.Create(ctx, tx, prescription); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &caller.UserID, entity.AuditActionPrescriptionCreate, "prescription",
			prescription.ID.String(), converter.PrescriptionToResponse(prescription))
	})
	if err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	prescription.Patient = *patient
	u.log.Infof("Prescription created: id=%s, doctor=%s, patient=%s", prescription.ID, caller.UserID, patientID)
	return converter.PrescriptionToResponse(prescription), nil
}

// GetPrescriptionsByDoctor lists newest first.
func (u *prescriptionUsecase) GetPrescriptionsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

func (u *prescriptionUsecase) RenderPDF(ctx context.Context, prescriptionID uuid.UUID) (*bytes.Buffer, string, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, "", err
	}

	prescription, err := u.prescriptionRepo.FindByID(ctx, u.db, prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, "", err
	}
	if prescription == nil {
		return nil, "", ErrPrescriptionNotFound
	}
	if (caller.IsDoctor() && prescription.DoctorID != caller.UserID) ||
		(caller.IsPatient() && prescription.PatientID != caller.UserID) {
		return nil, "", ErrForbidden
	}

	buf, err := u.pdfService.Render(prescription, u.loc)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("prescription_%s.pdf", prescription.ID), nil
}

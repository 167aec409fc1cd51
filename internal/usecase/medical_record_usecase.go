package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/infrastructure/storage"
	"medical-appointment-scheduler/internal/service"
	"medical-appointment-scheduler/pkg/clock"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// sniffBytes is how much of the upload is read to detect its type.
const sniffBytes = 3072

var (
	ErrFileRequired        = errors.New("file is required")
	ErrUnsupportedFileType = errors.New("unsupported file type, use PDF, JPEG or PNG")
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
)

// allowedExamTypes maps accepted MIME types to the extension files get.
var allowedExamTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

type MedicalRecordUsecase interface {
	// UploadRecord stores file as an exam of the patient. originalName is only
	// kept for display; the stored name is generated.
	UploadRecord(ctx context.Context, req *dto.UploadMedicalRecordRequest, file io.Reader, originalName string) (*dto.MedicalRecordResponse, error)
	GetRecordsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error)
}

type medicalRecordUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	clock              clock.Clock
	txManager          repository.TransactionManager
	recordRepo         repository.MedicalRecordRepository
	patientProfileRepo repository.PatientProfileRepository
	fileStorage        storage.FileStorage
	auditService       service.AuditService
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clk clock.Clock,
	txManager repository.TransactionManager,
	recordRepo repository.MedicalRecordRepository,
	patientProfileRepo repository.PatientProfileRepository,
	fileStorage storage.FileStorage,
	auditService service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:                 db,
		log:                log,
		clock:              clk,
		txManager:          txManager,
		recordRepo:         recordRepo,
		patientProfileRepo: patientProfileRepo,
		fileStorage:        fileStorage,
		auditService:       auditService,
	}
}

func (u *medicalRecordUsecase) UploadRecord(ctx context.Context, req *dto.UploadMedicalRecordRequest, file io.Reader, originalName string) (*dto.MedicalRecordResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrFileRequired
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	if caller.IsPatient() && caller.UserID != patientID {
		return nil, ErrForbidden
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrFileRequired
	}
	head = head[:n]

	mimeType := mimetype.Detect(head).String()
	ext := ""
	for allowed, e := range allowedExamTypes {
		if mimetype.EqualsAny(mimeType, allowed) {
			mimeType, ext = allowed, e
			break
		}
	}
	if ext == "" {
		return nil, ErrUnsupportedFileType
	}

	name := fmt.Sprintf("exam_%s_%d%s", patientID, u.clock.Now().UnixMilli(), ext)
	stored, err := u.fileStorage.Save(ctx, name, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		u.log.Errorf("Failed to store upload %s: %+v", name, err)
		return nil, err
	}

	record := &entity.MedicalRecord{
		PatientID:   patientID,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     stored.URL,
		FileName:    stored.Name,
		FileSize:    stored.Size,
		FileType:    mimeType,
	}
	if caller.IsDoctor() {
		record.DoctorID = &caller.UserID
	}

	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.recordRepo.Create(ctx, tx, record); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &caller.UserID, entity.AuditActionRecordUpload, "medical_record",
			record.ID.String(), map[string]interface{}{
				"file_name":     stored.Name,
				"original_name": originalName,
				"size":          stored.Size,
			})
	})
	if err != nil {
		u.log.Warnf("Failed to save medical record, removing %s: %+v", stored.Name, err)
		if rmErr := u.fileStorage.Remove(ctx, stored.Name); rmErr != nil {
			u.log.Errorf("Failed to remove orphaned upload %s: %+v", stored.Name, rmErr)
		}
		return nil, err
	}

	u.log.Infof("Medical record uploaded: id=%s, patient=%s, file=%s (%d bytes)", record.ID, patientID, stored.Name, stored.Size)
	return converter.MedicalRecordToResponse(record), nil
}

// GetRecordsByPatient lists newest first. Patients only see their own.
func (u *medicalRecordUsecase) GetRecordsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error) {
	caller, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if caller.IsPatient() && caller.UserID != patientID {
		return nil, ErrForbidden
	}

	records, err := u.recordRepo.FindByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical records for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records),
		Total:   len(records),
	}, nil
}

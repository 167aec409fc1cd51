package usecase

import (
	"context"
	"errors"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrLicenseAlreadyExists   = errors.New("license number already exists")
	ErrInvalidConsultationFee = errors.New("consultation fee cannot be negative")
)

type DoctorProfileUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context, specialty string) (*dto.DoctorListResponse, error)
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	txManager         repository.TransactionManager
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	txManager repository.TransactionManager,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		txManager:         txManager,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

// CreateDoctor creates the user account and the doctor profile in one insert.
func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if req.ConsultationFee.IsNegative() {
		return nil, ErrInvalidConsultationFee
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	doctorProfile := &entity.DoctorProfile{
		Specialty:       req.Specialty,
		LicenseNumber:   req.LicenseNumber,
		Phone:           req.Phone,
		ConsultationFee: req.ConsultationFee,
		Biography:       req.Biography,
		User: entity.User{
			Email:    req.Email,
			Password: string(hashedPassword),
			FullName: req.FullName,
			RoleID:   entity.RoleIDDoctor,
		},
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.doctorProfileRepo.Create(ctx, tx, doctorProfile); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &adminID, entity.AuditActionDoctorCreate, "doctor_profile",
			doctorProfile.UserID.String(), converter.DoctorProfileToResponse(doctorProfile))
	})
	if err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor created: id=%s, license=%s", doctorProfile.UserID, doctorProfile.LicenseNumber)
	return converter.DoctorProfileToResponse(doctorProfile), nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorProfileToResponse(doctor), nil
}

func (u *doctorProfileUsecase) GetAllDoctors(ctx context.Context, specialty string) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorProfileRepo.FindAllActive(ctx, u.db, specialty)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

package usecase

import (
	"context"
	"testing"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doctorRequest() *dto.CreateDoctorRequest {
	return &dto.CreateDoctorRequest{
		Email:           "ana@clinic.test",
		Password:        "secret123",
		FullName:        "Dr. Ana Costa",
		Specialty:       "Dermatologia",
		LicenseNumber:   "CRM-SP-654321",
		ConsultationFee: decimal.RequireFromString("180.50"),
	}
}

func TestCreateDoctorHashesPasswordAndAudits(t *testing.T) {
	var created *entity.DoctorProfile
	doctors := &fakeDoctorProfileRepo{createFn: func(profile *entity.DoctorProfile) error {
		profile.User.ID = uuid.New()
		profile.UserID = profile.User.ID
		created = profile
		return nil
	}}
	audit := &fakeAuditService{}
	usecase := NewDoctorProfileUsecase(nil, quietLogger(), fakeTxManager{}, doctors, audit)

	resp, err := usecase.CreateDoctor(asActor(uuid.New(), entity.RoleIDAdmin), doctorRequest())
	require.NoError(t, err)

	assert.Equal(t, "Dermatologia", resp.Specialty)
	assert.True(t, resp.ConsultationFee.Equal(decimal.RequireFromString("180.5")))
	assert.Equal(t, entity.RoleIDDoctor, created.User.RoleID)
	assert.True(t, created.User.HasHashedPassword())
	assert.Equal(t, []string{entity.AuditActionDoctorCreate}, audit.actions())
}

func TestCreateDoctorMapsConstraintViolations(t *testing.T) {
	cases := map[string]error{
		"idx_users_email":                    ErrEmailAlreadyExists,
		"idx_doctor_profiles_license_number": ErrLicenseAlreadyExists,
	}
	for constraint, want := range cases {
		doctors := &fakeDoctorProfileRepo{createFn: func(profile *entity.DoctorProfile) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
		}}
		usecase := NewDoctorProfileUsecase(nil, quietLogger(), fakeTxManager{}, doctors, &fakeAuditService{})

		_, err := usecase.CreateDoctor(asActor(uuid.New(), entity.RoleIDAdmin), doctorRequest())
		assert.ErrorIs(t, err, want, constraint)
	}
}

func TestCreateDoctorRejectsNegativeFee(t *testing.T) {
	usecase := NewDoctorProfileUsecase(nil, quietLogger(), fakeTxManager{}, &fakeDoctorProfileRepo{}, &fakeAuditService{})
	req := doctorRequest()
	req.ConsultationFee = decimal.NewFromInt(-1)

	_, err := usecase.CreateDoctor(asActor(uuid.New(), entity.RoleIDAdmin), req)
	assert.ErrorIs(t, err, ErrInvalidConsultationFee)
}

func TestGetAllDoctorsFiltersBySpecialty(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	doctors := &fakeDoctorProfileRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{
		a: {UserID: a, Specialty: "Cardiologia"},
		b: {UserID: b, Specialty: "Pediatria"},
	}}
	usecase := NewDoctorProfileUsecase(nil, quietLogger(), fakeTxManager{}, doctors, &fakeAuditService{})

	resp, err := usecase.GetAllDoctors(context.Background(), "Pediatria")
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, b, resp.Doctors[0].ID)

	_, err = usecase.GetDoctor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

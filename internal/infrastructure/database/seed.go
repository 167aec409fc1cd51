package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions carries the credentials of the demo accounts.
type SeedOptions struct {
	AdminEmail      string
	AdminPassword   string
	DoctorEmail     string
	DoctorPassword  string
	PatientEmail    string
	PatientPassword string
}

// Seed creates an admin, a cardiologist with a weekly schedule and a
// patient. Accounts that already exist are left untouched.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions, log *logrus.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := seedUser(tx, opts.AdminEmail, opts.AdminPassword, "Clinic Admin", entity.RoleIDAdmin); err != nil {
			return err
		}

		doctor, err := seedUser(tx, opts.DoctorEmail, opts.DoctorPassword, "Dr. Carlos Silva", entity.RoleIDDoctor)
		if err != nil {
			return err
		}
		if doctor != nil {
			profile := entity.DoctorProfile{
				UserID:          doctor.ID,
				Specialty:       "Cardiologia",
				Phone:           "(11) 99999-9999",
				LicenseNumber:   "CRM-SP-123456",
				ConsultationFee: decimal.RequireFromString("250.00"),
				Biography:       "Cardiologist with 15 years of clinical practice.",
			}
			if err := tx.Omit("User", "Schedules").Create(&profile).Error; err != nil {
				return fmt.Errorf("seed doctor profile: %w", err)
			}

			schedules := []entity.DoctorSchedule{
				{DoctorID: doctor.ID, DayOfWeek: int(time.Monday), StartTime: "08:00", EndTime: "12:00", SlotDuration: 30, MaxPatients: 8},
				{DoctorID: doctor.ID, DayOfWeek: int(time.Monday), StartTime: "14:00", EndTime: "18:00", SlotDuration: 30, MaxPatients: 8},
				{DoctorID: doctor.ID, DayOfWeek: int(time.Tuesday), StartTime: "08:00", EndTime: "12:00", SlotDuration: 30, MaxPatients: 8},
			}
			if err := tx.Create(&schedules).Error; err != nil {
				return fmt.Errorf("seed doctor schedules: %w", err)
			}
			log.Infof("Seeded doctor %s with %d schedule windows", opts.DoctorEmail, len(schedules))
		}

		patient, err := seedUser(tx, opts.PatientEmail, opts.PatientPassword, "Maria Santos", entity.RoleIDPatient)
		if err != nil {
			return err
		}
		if patient != nil {
			birth := time.Date(1985, time.April, 12, 0, 0, 0, 0, time.UTC)
			profile := entity.PatientProfile{
				UserID:    patient.ID,
				Phone:     "(11) 98888-7777",
				BirthDate: &birth,
			}
			if err := tx.Omit("User").Create(&profile).Error; err != nil {
				return fmt.Errorf("seed patient profile: %w", err)
			}
			log.Infof("Seeded patient %s", opts.PatientEmail)
		}

		return nil
	})
}

// seedUser returns the created user, or nil when the email is taken.
func seedUser(tx *gorm.DB, email, password, fullName string, roleID int) (*entity.User, error) {
	var existing entity.User
	err := tx.Where("LOWER(email) = LOWER(?)", email).First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", email, err)
	}

	user := &entity.User{
		RoleID:   roleID,
		Email:    email,
		Password: string(hash),
		FullName: fullName,
	}
	if err := tx.Omit("Role", "DoctorProfile", "PatientProfile").Create(user).Error; err != nil {
		return nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	return user, nil
}

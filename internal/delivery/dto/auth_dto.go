package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked
// together with the access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterPatientRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FullName  string `json:"full_name" validate:"required,min=2"`
	Phone     string `json:"phone" validate:"omitempty,min=8,max=20"`
	BirthDate string `json:"birth_date" validate:"omitempty,isodate"` // YYYY-MM-DD
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	FullName       string                  `json:"full_name"`
	Role           string                  `json:"role"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type DoctorProfileResponse struct {
	Specialty       string          `json:"specialty"`
	LicenseNumber   string          `json:"license_number"`
	Phone           string          `json:"phone,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
}

type PatientProfileResponse struct {
	Phone     string  `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

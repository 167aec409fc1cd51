package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,min=6"`
	FullName        string          `json:"full_name" validate:"required,min=2"`
	Specialty       string          `json:"specialty" validate:"required,max=100"`
	LicenseNumber   string          `json:"license_number" validate:"required,max=50"`
	Phone           string          `json:"phone" validate:"omitempty,max=20"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Biography       string          `json:"biography" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID          `json:"id"`
	Email           string             `json:"email"`
	FullName        string             `json:"full_name"`
	Specialty       string             `json:"specialty"`
	LicenseNumber   string             `json:"license_number"`
	Phone           string             `json:"phone,omitempty"`
	ConsultationFee decimal.Decimal    `json:"consultation_fee"`
	Biography       string             `json:"biography,omitempty"`
	IsActive        *bool              `json:"is_active"`
	Schedules       []ScheduleResponse `json:"schedules,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

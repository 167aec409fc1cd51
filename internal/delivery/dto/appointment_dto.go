package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest books a slot. scheduled_at is RFC3339, or a local
// "YYYY-MM-DDTHH:MM[:SS]" read in the clinic time zone.
type CreateAppointmentRequest struct {
	DoctorID    string `json:"doctor_id" validate:"required,uuid"`
	PatientID   string `json:"patient_id" validate:"required,uuid"`
	ScheduledAt string `json:"scheduled_at" validate:"required"`
	Notes       string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SCHEDULED CONFIRMED COMPLETED CANCELLED NO_SHOW"`
}

// Response DTOs

type AppointmentDoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Specialty string    `json:"specialty"`
}

type AppointmentPatientResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
}

type AppointmentResponse struct {
	ID          uuid.UUID                   `json:"id"`
	DoctorID    uuid.UUID                   `json:"doctor_id"`
	PatientID   uuid.UUID                   `json:"patient_id"`
	ScheduledAt time.Time                   `json:"scheduled_at"`
	Status      string                      `json:"status"`
	Notes       string                      `json:"notes,omitempty"`
	Doctor      *AppointmentDoctorResponse  `json:"doctor,omitempty"`
	Patient     *AppointmentPatientResponse `json:"patient,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AppointmentListQuery carries the raw query parameters of a listing.
type AppointmentListQuery struct {
	DoctorID  string `json:"doctor_id" validate:"omitempty,uuid"`
	PatientID string `json:"patient_id" validate:"omitempty,uuid"`
	Date      string `json:"date" validate:"omitempty,isodate"`
}

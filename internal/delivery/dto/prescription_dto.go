package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePrescriptionRequest struct {
	PatientID     string `json:"patient_id" validate:"required,uuid"`
	AppointmentID string `json:"appointment_id" validate:"omitempty,uuid"`
	Medication    string `json:"medication" validate:"required,max=255"`
	Dosage        string `json:"dosage" validate:"required,max=255"`
	Instructions  string `json:"instructions" validate:"omitempty,max=2000"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID            uuid.UUID  `json:"id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name,omitempty"`
	PatientID     uuid.UUID  `json:"patient_id"`
	PatientName   string     `json:"patient_name,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Medication    string     `json:"medication"`
	Dosage        string     `json:"dosage"`
	Instructions  string     `json:"instructions,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadMedicalRecordRequest holds the text fields of the multipart form.
type UploadMedicalRecordRequest struct {
	PatientID   string `json:"patient_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type MedicalRecordResponse struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	DoctorID    *uuid.UUID `json:"doctor_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	FileURL     string     `json:"file_url"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	FileType    string     `json:"file_type"`
	CreatedAt   time.Time  `json:"created_at"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int                     `json:"total"`
}

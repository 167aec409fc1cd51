package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is an exam file uploaded for a patient.
type MedicalRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    *uuid.UUID `gorm:"type:uuid" json:"doctor_id,omitempty"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	FileURL     string     `gorm:"type:text;not null" json:"file_url"`
	FileName    string     `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize    int64      `gorm:"not null" json:"file_size"`
	FileType    string     `gorm:"type:varchar(100);not null" json:"file_type"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

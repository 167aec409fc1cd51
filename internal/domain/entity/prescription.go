package entity

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid" json:"appointment_id,omitempty"`
	Medication    string     `gorm:"type:varchar(255);not null" json:"medication"`
	Dosage        string     `gorm:"type:varchar(255);not null" json:"dosage"`
	Instructions  string     `gorm:"type:text" json:"instructions,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

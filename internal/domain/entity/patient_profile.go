package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile holds patient contact data used for reminders and analytics.
type PatientProfile struct {
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Phone     string     `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// AgeAt returns the patient's age in whole years at the given instant,
// or -1 when no birth date is recorded.
func (p *PatientProfile) AgeAt(now time.Time) int {
	if p.BirthDate == nil {
		return -1
	}
	b := *p.BirthDate
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age
}

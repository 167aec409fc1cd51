package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorSchedule is one recurring weekly working window. A doctor may have
// several windows on the same weekday (morning and afternoon blocks); they
// are unioned, never merged.
type DoctorSchedule struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DayOfWeek    int       `gorm:"not null;index" json:"day_of_week"` // 0 = Sunday
	StartTime    string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime      string    `gorm:"type:varchar(5);not null" json:"end_time"`
	SlotDuration int       `gorm:"not null;default:30" json:"slot_duration"` // minutes
	MaxPatients  int       `gorm:"not null;default:1" json:"max_patients"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter narrows appointment listings. Zero values are ignored.
// From is inclusive and To exclusive.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Statuses  []AppointmentStatus
	From      *time.Time
	To        *time.Time
}

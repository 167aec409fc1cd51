package service

import (
	"bytes"
	"testing"
	"time"

	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrescriptionPDFRender(t *testing.T) {
	p := &entity.Prescription{
		ID:           uuid.New(),
		Medication:   "Losartana 50mg",
		Dosage:       "1 tablet every 12 hours",
		Instructions: "Take after meals for 30 days.",
		CreatedAt:    time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Doctor: entity.DoctorProfile{
			LicenseNumber: "CRM-SP-123456",
			Specialty:     "Cardiologia",
			User:          entity.User{FullName: "Dr. Carlos Silva"},
		},
		Patient: entity.PatientProfile{User: entity.User{FullName: "José Araújo"}},
	}

	buf, err := NewPrescriptionPDFService("Clínica Saúde", quietLogger()).Render(p, time.UTC)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

package converter

import (
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
)

func PrescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}

	return &dto.PrescriptionResponse{
		ID:            p.ID,
		DoctorID:      p.DoctorID,
		DoctorName:    p.Doctor.User.FullName,
		PatientID:     p.PatientID,
		PatientName:   p.Patient.User.FullName,
		AppointmentID: p.AppointmentID,
		Medication:    p.Medication,
		Dosage:        p.Dosage,
		Instructions:  p.Instructions,
		CreatedAt:     p.CreatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}

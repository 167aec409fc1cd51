package converter

import (
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity. Doctor and patient
// summaries are only set when the relations were preloaded.
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		PatientID:   a.PatientID,
		ScheduledAt: a.ScheduledAt,
		Status:      string(a.Status),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	if a.Doctor.UserID != uuid.Nil {
		response.Doctor = &dto.AppointmentDoctorResponse{
			ID:        a.Doctor.UserID,
			FullName:  a.Doctor.User.FullName,
			Specialty: a.Doctor.Specialty,
		}
	}
	if a.Patient.UserID != uuid.Nil {
		response.Patient = &dto.AppointmentPatientResponse{
			ID:       a.Patient.UserID,
			FullName: a.Patient.User.FullName,
			Email:    a.Patient.User.Email,
			Phone:    a.Patient.Phone,
		}
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

package converter

import (
	"time"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
)

// PatientProfileToResponse converts a PatientProfile; age is computed at now.
func PatientProfileToResponse(profile *entity.PatientProfile, now time.Time) dto.PatientResponse {
	response := dto.PatientResponse{
		ID:        profile.UserID,
		Email:     profile.User.Email,
		FullName:  profile.User.FullName,
		Phone:     profile.Phone,
		BirthDate: formatDate(profile.BirthDate),
	}
	if age := profile.AgeAt(now); age >= 0 {
		response.Age = &age
	}
	return response
}

func PatientProfilesToResponses(profiles []entity.PatientProfile, now time.Time) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(profiles))
	for i := range profiles {
		responses[i] = PatientProfileToResponse(&profiles[i], now)
	}
	return responses
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

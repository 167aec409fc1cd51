package converter

import (
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Profiles are included when they are loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      entity.RoleName(user.RoleID),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = &dto.DoctorProfileResponse{
			Specialty:       user.DoctorProfile.Specialty,
			LicenseNumber:   user.DoctorProfile.LicenseNumber,
			Phone:           user.DoctorProfile.Phone,
			ConsultationFee: user.DoctorProfile.ConsultationFee,
		}
	}

	if user.PatientProfile != nil {
		response.PatientProfile = &dto.PatientProfileResponse{
			Phone:     user.PatientProfile.Phone,
			BirthDate: formatDate(user.PatientProfile.BirthDate),
		}
	}

	return response
}

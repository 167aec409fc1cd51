package converter

import (
	"time"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorResponse DTO
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:              profile.UserID,
		Email:           profile.User.Email,
		FullName:        profile.User.FullName,
		Specialty:       profile.Specialty,
		LicenseNumber:   profile.LicenseNumber,
		Phone:           profile.Phone,
		ConsultationFee: profile.ConsultationFee,
		Biography:       profile.Biography,
		IsActive:        profile.User.IsActive,
	}
	if len(profile.Schedules) > 0 {
		response.Schedules = SchedulesToResponses(profile.Schedules)
	}
	return response
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}

func ScheduleToResponse(schedule *entity.DoctorSchedule) dto.ScheduleResponse {
	return dto.ScheduleResponse{
		ID:           schedule.ID,
		DoctorID:     schedule.DoctorID,
		DayOfWeek:    schedule.DayOfWeek,
		DayName:      time.Weekday(schedule.DayOfWeek).String(),
		StartTime:    schedule.StartTime,
		EndTime:      schedule.EndTime,
		SlotDuration: schedule.SlotDuration,
		MaxPatients:  schedule.MaxPatients,
	}
}

func SchedulesToResponses(schedules []entity.DoctorSchedule) []dto.ScheduleResponse {
	responses := make([]dto.ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = ScheduleToResponse(&schedules[i])
	}
	return responses
}

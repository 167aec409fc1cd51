package converter

import (
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
)

func MedicalRecordToResponse(r *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if r == nil {
		return nil
	}

	return &dto.MedicalRecordResponse{
		ID:          r.ID,
		PatientID:   r.PatientID,
		DoctorID:    r.DoctorID,
		Title:       r.Title,
		Description: r.Description,
		FileURL:     r.FileURL,
		FileName:    r.FileName,
		FileSize:    r.FileSize,
		FileType:    r.FileType,
		CreatedAt:   r.CreatedAt,
	}
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}

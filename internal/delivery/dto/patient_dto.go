package dto

import (
	"github.com/google/uuid"
)

type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate *string   `json:"birth_date,omitempty"`
	Age       *int      `json:"age,omitempty"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

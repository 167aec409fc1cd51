package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type ScheduleRequest struct {
	DayOfWeek    *int   `json:"day_of_week" validate:"required,min=0,max=6"` // 0 = Sunday
	StartTime    string `json:"start_time" validate:"required,hhmm"`
	EndTime      string `json:"end_time" validate:"required,hhmm"`
	SlotDuration int    `json:"slot_duration" validate:"required,gt=0,lte=480"`
	MaxPatients  int    `json:"max_patients" validate:"omitempty,gte=1"`
}

// ReplaceSchedulesRequest is the whole weekly schedule. An empty list clears it.
type ReplaceSchedulesRequest struct {
	Schedules []ScheduleRequest `json:"schedules" validate:"dive"`
}

// Response DTOs

type ScheduleResponse struct {
	ID           int       `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	DayOfWeek    int       `json:"day_of_week"`
	DayName      string    `json:"day_name"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	SlotDuration int       `json:"slot_duration"`
	MaxPatients  int       `json:"max_patients"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

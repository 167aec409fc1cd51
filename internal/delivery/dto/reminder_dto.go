package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReminderResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Patient       string    `json:"patient"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Doctor        string    `json:"doctor"`
	Specialty     string    `json:"specialty"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Message       string    `json:"message"`
}

type ReminderListResponse struct {
	Date      string             `json:"date"`
	Reminders []ReminderResponse `json:"reminders"`
	Total     int                `json:"total"`
}

type ReminderSendResult struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Patient       string    `json:"patient"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Message       string    `json:"message"`
	Sent          bool      `json:"sent"`
	Error         string    `json:"error,omitempty"`
}

type ReminderSendResponse struct {
	Results []ReminderSendResult `json:"results"`
	Sent    int                  `json:"sent"`
	Failed  int                  `json:"failed"`
}

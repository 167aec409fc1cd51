package handler

import (
	"net/http"

	"medical-appointment-scheduler/internal/usecase"
	"medical-appointment-scheduler/pkg/response"
)

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
}

func NewReminderHandler(reminderUsecase usecase.ReminderUsecase) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
	}
}

func (h *ReminderHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderUsecase.GetTomorrowReminders(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get reminders")
		return
	}

	response.Success(w, http.StatusOK, "Reminders retrieved successfully", reminders)
}

func (h *ReminderHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminderUsecase.SendTomorrowReminders(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to send reminders")
		return
	}

	response.Success(w, http.StatusOK, "Reminders processed", result)
}

package handler

import (
	"net/http"

	"medical-appointment-scheduler/internal/usecase"
	"medical-appointment-scheduler/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	calendarContentType = "text/calendar; charset=utf-8"
)

type DoctorInsightsHandler struct {
	insightsUsecase usecase.DoctorInsightsUsecase
}

func NewDoctorInsightsHandler(insightsUsecase usecase.DoctorInsightsUsecase) *DoctorInsightsHandler {
	return &DoctorInsightsHandler{
		insightsUsecase: insightsUsecase,
	}
}

func (h *DoctorInsightsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	dashboard, err := h.insightsUsecase.GetDashboard(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *DoctorInsightsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	analytics, err := h.insightsUsecase.GetAnalytics(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get analytics")
		return
	}

	response.Success(w, http.StatusOK, "Analytics retrieved successfully", analytics)
}

func (h *DoctorInsightsHandler) ExportAppointments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	buf, filename, err := h.insightsUsecase.ExportAppointments(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to export appointments")
		return
	}

	response.File(w, xlsxContentType, filename, buf.Bytes())
}

func (h *DoctorInsightsHandler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	data, filename, err := h.insightsUsecase.ExportCalendar(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to export calendar")
		return
	}

	response.File(w, calendarContentType, filename, data)
}

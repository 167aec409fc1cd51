package handler

import (
	"errors"
	"net/http"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/usecase"
	"medical-appointment-scheduler/pkg/response"
	"medical-appointment-scheduler/pkg/validator"

	"github.com/google/uuid"
)

// multipartOverhead leaves room for the text fields and part headers.
const multipartOverhead = 1 << 20

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
	maxBytes      int64
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator, maxBytes int64) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
		maxBytes:      maxBytes,
	}
}

// Upload reads a multipart form with file, title, description and patient_id.
func (h *MedicalRecordHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, usecase.ErrFileTooLarge.Error(), nil)
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := dto.UploadMedicalRecordRequest{
		PatientID:   r.FormValue("patient_id"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, usecase.ErrFileRequired.Error())
		return
	}
	defer file.Close()

	record, err := h.recordUsecase.UploadRecord(r.Context(), &req, file, header.Filename)
	if err != nil {
		switch err {
		case usecase.ErrFileRequired:
			response.BadRequest(w, err.Error())
		case usecase.ErrUnsupportedFileType:
			response.Error(w, http.StatusUnsupportedMediaType, err.Error(), nil)
		case usecase.ErrFileTooLarge:
			response.Error(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrForbidden:
			response.Forbidden(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to upload medical record")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Medical record uploaded successfully", record)
}

// ListRecords serves ?patient_id=; patients may omit it to list their own.
func (h *MedicalRecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("patient_id")
	var patientID uuid.UUID
	if raw == "" {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}
		patientID = userID
	} else {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
			return
		}
		patientID = id
	}

	records, err := h.recordUsecase.GetRecordsByPatient(r.Context(), patientID)
	if err != nil {
		switch err {
		case usecase.ErrForbidden:
			response.Forbidden(w, err.Error())
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "Invalid token")
		default:
			response.InternalServerError(w, "Failed to get medical records")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/usecase"
	"medical-appointment-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Meta    *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type fakeAvailabilityUsecase struct {
	slots []dto.SlotResponse
	err   error
	date  string
}

func (f *fakeAvailabilityUsecase) GetSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.SlotResponse, error) {
	f.date = date
	return f.slots, f.err
}

type fakeAppointmentUsecase struct {
	bookErr error
	booked  *dto.CreateAppointmentRequest
}

func (f *fakeAppointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.booked = req
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &dto.AppointmentResponse{ID: uuid.New(), Status: string(entity.AppointmentStatusScheduled)}, nil
}

func (f *fakeAppointmentUsecase) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: appointmentID, Status: req.Status}, nil
}

func (f *fakeAppointmentUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: appointmentID, Status: string(entity.AppointmentStatusCancelled)}, nil
}

func (f *fakeAppointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return nil, usecase.ErrAppointmentNotFound
}

func (f *fakeAppointmentUsecase) ListAppointments(ctx context.Context, query *dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
}

func (f *fakeAppointmentUsecase) ListMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
}

type fakeMedicalRecordUsecase struct {
	err          error
	content      []byte
	originalName string
	patientID    uuid.UUID
}

func (f *fakeMedicalRecordUsecase) UploadRecord(ctx context.Context, req *dto.UploadMedicalRecordRequest, file io.Reader, originalName string) (*dto.MedicalRecordResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f.content = content
	f.originalName = originalName
	return &dto.MedicalRecordResponse{ID: uuid.New(), Title: req.Title, FileName: originalName}, nil
}

func (f *fakeMedicalRecordUsecase) GetRecordsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error) {
	f.patientID = patientID
	return &dto.MedicalRecordListResponse{Records: []dto.MedicalRecordResponse{}}, nil
}

type fakeAuditLogUsecase struct {
	page, limit int
}

func (f *fakeAuditLogUsecase) GetAuditLogs(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, error) {
	f.page, f.limit = page, limit
	return &dto.AuditLogListResponse{Logs: []dto.AuditLogResponse{}, Page: 2, Limit: 20, Total: 45}, nil
}

type fakePrescriptionUsecase struct {
	renderErr error
}

func (f *fakePrescriptionUsecase) CreatePrescription(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	return nil, usecase.ErrAppointmentMismatch
}

func (f *fakePrescriptionUsecase) GetPrescriptionsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.PrescriptionListResponse, error) {
	return &dto.PrescriptionListResponse{}, nil
}

func (f *fakePrescriptionUsecase) RenderPDF(ctx context.Context, prescriptionID uuid.UUID) (*bytes.Buffer, string, error) {
	if f.renderErr != nil {
		return nil, "", f.renderErr
	}
	return bytes.NewBufferString("%PDF-1.3 test"), "prescription_ab12cd34.pdf", nil
}

func TestGetSlots(t *testing.T) {
	doctorID := uuid.New()
	call := func(f *fakeAvailabilityUsecase, target string) *httptest.ResponseRecorder {
		h := NewDoctorHandler(nil, f, validator.NewValidator())
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, target, nil), map[string]string{"id": doctorID.String()})
		rec := httptest.NewRecorder()
		h.GetSlots(rec, req)
		return rec
	}

	t.Run("returns slots", func(t *testing.T) {
		f := &fakeAvailabilityUsecase{slots: []dto.SlotResponse{{Time: "08:00", Available: true}, {Time: "08:30", Available: false}}}
		rec := call(f, "/doctors/x/slots?date=2025-03-10")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2025-03-10", f.date)
		var slots []dto.SlotResponse
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &slots))
		assert.Equal(t, f.slots, slots)
	})

	t.Run("missing date", func(t *testing.T) {
		rec := call(&fakeAvailabilityUsecase{}, "/doctors/x/slots")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := call(&fakeAvailabilityUsecase{err: usecase.ErrInvalidDate}, "/doctors/x/slots?date=10-03-2025")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		rec := call(&fakeAvailabilityUsecase{err: usecase.ErrDoctorNotFound}, "/doctors/x/slots?date=2025-03-10")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookAppointmentMapsErrors(t *testing.T) {
	body := `{"doctor_id":"` + uuid.NewString() + `","patient_id":"` + uuid.NewString() + `","scheduled_at":"2025-03-10T09:00"}`

	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusCreated},
		{usecase.ErrSlotAlreadyBooked, http.StatusConflict},
		{usecase.ErrOutsideWorkingHours, http.StatusUnprocessableEntity},
		{usecase.ErrDoctorNotFound, http.StatusNotFound},
		{usecase.ErrPatientNotFound, http.StatusNotFound},
		{usecase.ErrInvalidScheduledAt, http.StatusBadRequest},
		{usecase.ErrForbidden, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := NewAppointmentHandler(&fakeAppointmentUsecase{bookErr: tc.err}, validator.NewValidator())
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))
		assert.Equal(t, tc.want, rec.Code, "%v", tc.err)
	}
}

func TestBookAppointmentValidatesBeforeCallingUsecase(t *testing.T) {
	f := &fakeAppointmentUsecase{}
	h := NewAppointmentHandler(f, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"doctor_id":"nope","scheduled_at":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.booked)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(decode(t, rec).Error, &fields))
	assert.Contains(t, fields, "doctor_id")
	assert.Contains(t, fields, "patient_id")
	assert.Contains(t, fields, "scheduled_at")

	rec = httptest.NewRecorder()
	h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())
	id := uuid.New()

	send := func(status string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/appointments/"+id.String(), strings.NewReader(`{"status":"`+status+`"}`))
		req = mux.SetURLVars(req, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, send("RESCHEDULED").Code)

	rec := send("COMPLETED")
	assert.Equal(t, http.StatusOK, rec.Code)
	var appointment dto.AppointmentResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &appointment))
	assert.Equal(t, "COMPLETED", appointment.Status)
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/medical-records/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadMedicalRecord(t *testing.T) {
	fields := map[string]string{"patient_id": uuid.NewString(), "title": "Blood panel"}

	t.Run("passes the file to the usecase", func(t *testing.T) {
		f := &fakeMedicalRecordUsecase{}
		h := NewMedicalRecordHandler(f, validator.NewValidator(), 10<<20)
		rec := httptest.NewRecorder()
		h.Upload(rec, multipartUpload(t, fields, "hemograma.pdf", []byte("%PDF-1.4 exam")))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "hemograma.pdf", f.originalName)
		assert.Equal(t, []byte("%PDF-1.4 exam"), f.content)
	})

	t.Run("missing file", func(t *testing.T) {
		f := &fakeMedicalRecordUsecase{}
		h := NewMedicalRecordHandler(f, validator.NewValidator(), 10<<20)
		rec := httptest.NewRecorder()
		h.Upload(rec, multipartUpload(t, fields, "", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.originalName)
	})

	t.Run("missing title", func(t *testing.T) {
		h := NewMedicalRecordHandler(&fakeMedicalRecordUsecase{}, validator.NewValidator(), 10<<20)
		rec := httptest.NewRecorder()
		h.Upload(rec, multipartUpload(t, map[string]string{"patient_id": uuid.NewString()}, "a.pdf", []byte("x")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported type", func(t *testing.T) {
		h := NewMedicalRecordHandler(&fakeMedicalRecordUsecase{err: usecase.ErrUnsupportedFileType}, validator.NewValidator(), 10<<20)
		rec := httptest.NewRecorder()
		h.Upload(rec, multipartUpload(t, fields, "notes.txt", []byte("plain text")))

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("body over the limit", func(t *testing.T) {
		h := NewMedicalRecordHandler(&fakeMedicalRecordUsecase{}, validator.NewValidator(), 1)
		rec := httptest.NewRecorder()
		h.Upload(rec, multipartUpload(t, fields, "big.pdf", bytes.Repeat([]byte("a"), multipartOverhead+1024)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestListRecordsDefaultsToCaller(t *testing.T) {
	f := &fakeMedicalRecordUsecase{}
	h := NewMedicalRecordHandler(f, validator.NewValidator(), 10<<20)
	patientID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/medical-records", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), patientID, "maria@email.com", entity.RoleIDPatient, "token"))
	rec := httptest.NewRecorder()
	h.ListRecords(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, patientID, f.patientID)

	rec = httptest.NewRecorder()
	h.ListRecords(rec, httptest.NewRequest(http.MethodGet, "/medical-records?patient_id=bad", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAuditLogsReturnsPageMeta(t *testing.T) {
	f := &fakeAuditLogUsecase{}
	h := NewAuditLogHandler(f)

	rec := httptest.NewRecorder()
	h.GetAuditLogs(rec, httptest.NewRequest(http.MethodGet, "/admin/audit-logs?page=2&limit=20", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.page)
	assert.Equal(t, 20, f.limit)
	body := decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, int64(45), body.Meta.Total)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

func TestDownloadPrescriptionPDF(t *testing.T) {
	id := uuid.New()
	download := func(f *fakePrescriptionUsecase) *httptest.ResponseRecorder {
		h := NewPrescriptionHandler(f, validator.NewValidator())
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/prescriptions/"+id.String()+"/pdf", nil), map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		h.DownloadPDF(rec, req)
		return rec
	}

	rec := download(&fakePrescriptionUsecase{})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "prescription_ab12cd34.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	assert.Equal(t, http.StatusForbidden, download(&fakePrescriptionUsecase{renderErr: usecase.ErrForbidden}).Code)
	assert.Equal(t, http.StatusNotFound, download(&fakePrescriptionUsecase{renderErr: usecase.ErrPrescriptionNotFound}).Code)
}

func TestCreatePrescriptionMismatchIsBadRequest(t *testing.T) {
	h := NewPrescriptionHandler(&fakePrescriptionUsecase{}, validator.NewValidator())
	body := `{"patient_id":"` + uuid.NewString() + `","appointment_id":"` + uuid.NewString() + `","medication":"Losartana 50mg","dosage":"1x ao dia"}`

	rec := httptest.NewRecorder()
	h.CreatePrescription(rec, httptest.NewRequest(http.MethodPost, "/prescriptions", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

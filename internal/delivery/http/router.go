package http

import (
	"net/http"
	"strings"

	"medical-appointment-scheduler/internal/delivery/http/handler"
	"medical-appointment-scheduler/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           *handler.AuthHandler
	Doctor         *handler.DoctorHandler
	DoctorSchedule *handler.DoctorScheduleHandler
	Appointment    *handler.AppointmentHandler
	DoctorInsights *handler.DoctorInsightsHandler
	Prescription   *handler.PrescriptionHandler
	Patient        *handler.PatientHandler
	MedicalRecord  *handler.MedicalRecordHandler
	Reminder       *handler.ReminderHandler
	AuditLog       *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	uploads        http.FileSystem
	uploadPrefix   string
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	uploads http.FileSystem,
	uploadPrefix string,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		uploads:        uploads,
		uploadPrefix:   uploadPrefix,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even where no OPTIONS route exists.
func (r *Router) Setup() http.Handler {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory and availability (public)
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.HandleFunc("", h.Doctor.GetAllDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}/slots", h.Doctor.GetSlots).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}/schedules", h.DoctorSchedule.GetSchedules).Methods(http.MethodGet)

	// Doctor workspace (the doctor themselves or an admin)
	doctorSelf := api.PathPrefix("/doctors/{id}").Subrouter()
	doctorSelf.Use(r.authMiddleware.Authenticate)
	doctorSelf.Use(middleware.RequireAdminOrDoctor)
	doctorSelf.Use(middleware.RequireSelfOrAdmin("id"))
	doctorSelf.HandleFunc("/schedules", h.DoctorSchedule.ReplaceSchedules).Methods(http.MethodPut)
	doctorSelf.HandleFunc("/appointments", h.Appointment.ListDoctorAppointments).Methods(http.MethodGet)
	doctorSelf.HandleFunc("/appointments/export", h.DoctorInsights.ExportAppointments).Methods(http.MethodGet)
	doctorSelf.HandleFunc("/appointments/calendar", h.DoctorInsights.ExportCalendar).Methods(http.MethodGet)
	doctorSelf.HandleFunc("/dashboard", h.DoctorInsights.GetDashboard).Methods(http.MethodGet)
	doctorSelf.HandleFunc("/analytics", h.DoctorInsights.GetAnalytics).Methods(http.MethodGet)
	doctorSelf.HandleFunc("/prescriptions", h.Prescription.GetDoctorPrescriptions).Methods(http.MethodGet)

	// Appointments (authenticated, ownership enforced by the usecase)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", h.Appointment.BookAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("", h.Appointment.ListAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/me", h.Appointment.ListMyAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", h.Appointment.UpdateStatus).Methods(http.MethodPut)
	appointments.HandleFunc("/{id}/cancel", h.Appointment.CancelAppointment).Methods(http.MethodPost)

	// Prescriptions
	prescriptions := api.PathPrefix("/prescriptions").Subrouter()
	prescriptions.Use(r.authMiddleware.Authenticate)
	prescriptions.Handle("", middleware.RequireDoctor(http.HandlerFunc(h.Prescription.CreatePrescription))).Methods(http.MethodPost)
	prescriptions.HandleFunc("/{id}/pdf", h.Prescription.DownloadPDF).Methods(http.MethodGet)

	// Patients (admin or doctor)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireAdminOrDoctor)
	patients.HandleFunc("", h.Patient.GetAllPatients).Methods(http.MethodGet)

	// Medical records
	records := api.PathPrefix("/medical-records").Subrouter()
	records.Use(r.authMiddleware.Authenticate)
	records.HandleFunc("/upload", h.MedicalRecord.Upload).Methods(http.MethodPost)
	records.HandleFunc("", h.MedicalRecord.ListRecords).Methods(http.MethodGet)

	// Reminders (admin or doctor)
	reminders := api.PathPrefix("/reminders").Subrouter()
	reminders.Use(r.authMiddleware.Authenticate)
	reminders.Use(middleware.RequireAdminOrDoctor)
	reminders.HandleFunc("", h.Reminder.GetReminders).Methods(http.MethodGet)
	reminders.HandleFunc("/send", h.Reminder.SendReminders).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/doctors", h.Doctor.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAuditLogs).Methods(http.MethodGet)

	// Uploaded exam files
	if r.uploads != nil && r.uploadPrefix != "" {
		prefix := strings.TrimSuffix(r.uploadPrefix, "/") + "/"
		r.router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(r.uploads)))
	}

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

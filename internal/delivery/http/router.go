package http

import (
	"net/http"

	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	patientHandler      *handler.PatientHandler
	workingHoursHandler *handler.WorkingHoursHandler
	exceptionHandler    *handler.ExceptionHandler
	patternHandler      *handler.PatternHandler
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	bulkEditHandler     *handler.BulkEditHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	workingHoursHandler *handler.WorkingHoursHandler,
	exceptionHandler *handler.ExceptionHandler,
	patternHandler *handler.PatternHandler,
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	bulkEditHandler *handler.BulkEditHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		patientHandler:      patientHandler,
		workingHoursHandler: workingHoursHandler,
		exceptionHandler:    exceptionHandler,
		patternHandler:      patternHandler,
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		bulkEditHandler:     bulkEditHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Operational endpoints
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor account management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Availability reads (any authenticated user)
	availability := api.PathPrefix("/doctors/{doctorId}").Subrouter()
	availability.Use(r.authMiddleware.Authenticate)
	availability.HandleFunc("/availability/{date}", r.availabilityHandler.GetDayAvailability).Methods(http.MethodGet)
	availability.HandleFunc("/availability", r.availabilityHandler.GetRangeAvailability).Methods(http.MethodGet)

	// Schedule management (admin on any doctor, doctors on themselves)
	schedule := api.PathPrefix("/doctors/{doctorId}").Subrouter()
	schedule.Use(r.authMiddleware.Authenticate)
	schedule.Use(middleware.RequireAdminOrDoctor)

	schedule.HandleFunc("/working-hours", r.workingHoursHandler.SetWorkingHours).Methods(http.MethodPut)
	schedule.HandleFunc("/working-hours", r.workingHoursHandler.GetWorkingHours).Methods(http.MethodGet)
	schedule.HandleFunc("/working-hours/{day}", r.workingHoursHandler.DeleteWorkingHours).Methods(http.MethodDelete)

	schedule.HandleFunc("/exceptions", r.exceptionHandler.CreateException).Methods(http.MethodPost)
	schedule.HandleFunc("/exceptions", r.exceptionHandler.GetExceptions).Methods(http.MethodGet)
	schedule.HandleFunc("/exceptions/{id}", r.exceptionHandler.DeleteException).Methods(http.MethodDelete)

	schedule.HandleFunc("/patterns", r.patternHandler.CreatePattern).Methods(http.MethodPost)
	schedule.HandleFunc("/patterns", r.patternHandler.GetPatterns).Methods(http.MethodGet)
	schedule.HandleFunc("/patterns/{id}", r.patternHandler.GetPattern).Methods(http.MethodGet)
	schedule.HandleFunc("/patterns/{id}", r.patternHandler.UpdatePattern).Methods(http.MethodPut)
	schedule.HandleFunc("/patterns/{id}", r.patternHandler.DeletePattern).Methods(http.MethodDelete)
	schedule.HandleFunc("/patterns/{id}/apply", r.bulkEditHandler.ApplyPattern).Methods(http.MethodPost)

	schedule.HandleFunc("/slots", r.availabilityHandler.MaterializeSlots).Methods(http.MethodPost)
	schedule.HandleFunc("/slots/{slotId}", r.availabilityHandler.UpdateSlotStatus).Methods(http.MethodPatch)
	schedule.HandleFunc("/copy-week", r.bulkEditHandler.CopyWeek).Methods(http.MethodPost)
	schedule.HandleFunc("/availability/bulk", r.bulkEditHandler.BulkSetAvailability).Methods(http.MethodPost)

	schedule.HandleFunc("/appointments", r.appointmentHandler.GetDoctorAppointments).Methods(http.MethodGet)

	// Doctor self-service profile
	doctorSelf := api.PathPrefix("/doctor").Subrouter()
	doctorSelf.Use(r.authMiddleware.Authenticate)
	doctorSelf.Use(middleware.RequireDoctor)
	doctorSelf.HandleFunc("/profile", r.doctorHandler.UpdateSelfProfile).Methods(http.MethodPut)

	// Patient routes
	patient := api.PathPrefix("/").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/patient/profile", r.patientHandler.UpdateSelfProfile).Methods(http.MethodPut)
	patient.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/me", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPost)

	// Appointment lifecycle (admin or doctor)
	staff := api.PathPrefix("/appointments").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireAdminOrDoctor)
	staff.HandleFunc("/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)

	// Add observability middleware
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(middleware.Metrics)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

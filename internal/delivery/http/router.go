package http

import (
	"net/http"

	"hospital-appointment-service/internal/delivery/http/handler"
	"hospital-appointment-service/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                     *mux.Router
	appointmentHandler         *handler.AppointmentHandler
	appointmentScheduleHandler *handler.AppointmentScheduleHandler
	healthHandler              *handler.HealthHandler
	eventsHandler              http.Handler
	authMiddleware             *middleware.AuthMiddleware
	corsMiddleware             *middleware.CORSMiddleware
	loggingMiddleware          *middleware.LoggingMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	appointmentScheduleHandler *handler.AppointmentScheduleHandler,
	healthHandler *handler.HealthHandler,
	eventsHandler http.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:                     mux.NewRouter(),
		appointmentHandler:         appointmentHandler,
		appointmentScheduleHandler: appointmentScheduleHandler,
		healthHandler:              healthHandler,
		eventsHandler:              eventsHandler,
		authMiddleware:             authMiddleware,
		corsMiddleware:             corsMiddleware,
		loggingMiddleware:          loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.loggingMiddleware.Recover)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)

	// Real-time events; the handshake may carry the token as ?token=
	api.Handle("/ws", r.authMiddleware.Authenticate(r.eventsHandler)).Methods(http.MethodGet)

	// Appointment reads (any authenticated user)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)

	// Static paths are registered before {id} so they are not captured by it
	appointments.HandleFunc("", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/calendar", r.appointmentScheduleHandler.GetCalendar).Methods(http.MethodGet)
	appointments.HandleFunc("/available-slots", r.appointmentScheduleHandler.GetAvailableSlots).Methods(http.MethodGet)
	appointments.Handle("/stats", middleware.RequireStaff(http.HandlerFunc(r.appointmentScheduleHandler.GetStats))).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/history", r.appointmentHandler.GetAppointmentHistory).Methods(http.MethodGet)

	// Appointment writes; patients may only book, cancel and reschedule their own
	booking := api.PathPrefix("/appointments").Subrouter()
	booking.Use(r.authMiddleware.Authenticate)
	booking.Use(middleware.RequireBookingRole)
	booking.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	booking.Handle("/{id}", middleware.RequireFrontDesk(http.HandlerFunc(r.appointmentHandler.UpdateAppointment))).Methods(http.MethodPatch, http.MethodPut)
	booking.HandleFunc("/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)
	booking.Handle("/{id}/confirm", middleware.RequireFrontDesk(http.HandlerFunc(r.appointmentHandler.ConfirmAppointment))).Methods(http.MethodPost)
	booking.HandleFunc("/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPost)

	// Doctor-scoped views
	doctors := api.PathPrefix("/doctors/{doctorId}").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	doctors.HandleFunc("/weekly-schedule", r.appointmentScheduleHandler.GetWeeklySchedule).Methods(http.MethodGet)
	doctors.Handle("/appointments/stats", middleware.RequireStaff(http.HandlerFunc(r.appointmentScheduleHandler.GetDoctorStats))).Methods(http.MethodGet)

	return r.router
}

// Handler wraps the routes with CORS so preflight requests are answered before routing
func (r *Router) Handler() http.Handler {
	return r.corsMiddleware.Handle(r.Setup())
}

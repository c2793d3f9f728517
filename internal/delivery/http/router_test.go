package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-appointment-service/config"
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/delivery/http/handler"
	"hospital-appointment-service/internal/delivery/http/middleware"
	"hospital-appointment-service/internal/domain/entity"
	"hospital-appointment-service/internal/testutil"
	"hospital-appointment-service/pkg/jwt"
	"hospital-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type stubAppointmentUsecase struct {
	getCalls int
}

func (s *stubAppointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{}, nil
}

func (s *stubAppointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	s.getCalls++
	return &dto.AppointmentResponse{ID: id}, nil
}

func (s *stubAppointmentUsecase) List(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Page: 1, Limit: 20}, nil
}

func (s *stubAppointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: id}, nil
}

func (s *stubAppointmentUsecase) Cancel(ctx context.Context, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: id}, nil
}

func (s *stubAppointmentUsecase) Confirm(ctx context.Context, id uuid.UUID, req *dto.ConfirmAppointmentRequest) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: id}, nil
}

func (s *stubAppointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	return &dto.AppointmentResponse{ID: id}, nil
}

func (s *stubAppointmentUsecase) History(ctx context.Context, id uuid.UUID) (*dto.AuditLogListResponse, error) {
	return &dto.AuditLogListResponse{}, nil
}

type stubScheduleUsecase struct {
	calendarCalls int
}

func (s *stubScheduleUsecase) Calendar(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarResponse, error) {
	s.calendarCalls++
	return &dto.CalendarResponse{}, nil
}

func (s *stubScheduleUsecase) WeeklySchedule(ctx context.Context, req *dto.WeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error) {
	return &dto.WeeklyScheduleResponse{DoctorID: req.DoctorID}, nil
}

func (s *stubScheduleUsecase) AvailableSlots(ctx context.Context, req *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error) {
	return &dto.AvailableSlotsResponse{}, nil
}

func (s *stubScheduleUsecase) Stats(ctx context.Context) (*dto.AppointmentStatsResponse, error) {
	return &dto.AppointmentStatsResponse{}, nil
}

func (s *stubScheduleUsecase) DoctorStats(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorAppointmentStatsResponse, error) {
	return &dto.DoctorAppointmentStatsResponse{DoctorID: doctorID}, nil
}

const testSecret = "test-secret"

type routerFixture struct {
	handler      http.Handler
	appointments *stubAppointmentUsecase
	schedule     *stubScheduleUsecase
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: testSecret})
	v := validator.NewValidator()
	errs := handler.NewErrorResponder(log, false)
	appointments := &stubAppointmentUsecase{}
	schedule := &stubScheduleUsecase{}
	events := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	router := NewRouter(
		handler.NewAppointmentHandler(appointments, v, errs),
		handler.NewAppointmentScheduleHandler(schedule, v, errs),
		handler.NewHealthHandler(testutil.NewSQLiteDB(t)),
		events,
		middleware.NewAuthMiddleware(jwtService, nil, log),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
	)

	return &routerFixture{
		handler:      router.Handler(),
		appointments: appointments,
		schedule:     schedule,
	}
}

func (f *routerFixture) do(t *testing.T, method, target, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+testutil.AccessToken(t, testSecret, uuid.New(), role, time.Hour))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	f := newRouterFixture(t)

	if rec := f.do(t, http.MethodGet, "/api/v1/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	rec := f.do(t, http.MethodGet, "/api/v1/health", "")
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	f := newRouterFixture(t)
	id := uuid.NewString()

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/v1/appointments"},
		{http.MethodPost, "/api/v1/appointments"},
		{http.MethodGet, "/api/v1/appointments/" + id},
		{http.MethodPost, "/api/v1/appointments/" + id + "/cancel"},
		{http.MethodGet, "/api/v1/doctors/" + id + "/weekly-schedule"},
		{http.MethodGet, "/api/v1/ws"},
		{http.MethodGet, "/api/v1/ws?topics=appointments"},
	}
	for _, tt := range tests {
		if rec := f.do(t, tt.method, tt.target, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tt.method, tt.target, rec.Code)
		}
	}
}

func TestRouter_EventsRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	if rec := f.do(t, http.MethodGet, "/api/v1/ws", entity.RolePatient); rec.Code != http.StatusTeapot {
		t.Fatalf("expected events handler with a bearer token, got %d", rec.Code)
	}

	token := testutil.AccessToken(t, testSecret, uuid.New(), entity.RoleReceptionist, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+token, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected events handler with a query token, got %d", rec.Code)
	}
}

func TestRouter_StaticPathsBeforeID(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/appointments/calendar", entity.RolePatient)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar: expected 200, got %d", rec.Code)
	}
	if f.schedule.calendarCalls != 1 || f.appointments.getCalls != 0 {
		t.Fatalf("calendar routed to wrong handler: calendar=%d get=%d", f.schedule.calendarCalls, f.appointments.getCalls)
	}

	if rec := f.do(t, http.MethodGet, "/api/v1/appointments/available-slots", entity.RolePatient); rec.Code != http.StatusBadRequest {
		t.Fatalf("available-slots without params: expected 400, got %d", rec.Code)
	}
}

func TestRouter_StatsRequireStaff(t *testing.T) {
	f := newRouterFixture(t)
	doctorStats := "/api/v1/doctors/" + uuid.NewString() + "/appointments/stats"

	tests := []struct {
		target string
		role   string
		want   int
	}{
		{"/api/v1/appointments/stats", entity.RoleAdmin, http.StatusOK},
		{"/api/v1/appointments/stats", entity.RoleDoctor, http.StatusOK},
		{"/api/v1/appointments/stats", entity.RolePatient, http.StatusForbidden},
		{doctorStats, entity.RoleDoctor, http.StatusOK},
		{doctorStats, entity.RoleReceptionist, http.StatusForbidden},
	}
	for _, tt := range tests {
		if rec := f.do(t, http.MethodGet, tt.target, tt.role); rec.Code != tt.want {
			t.Fatalf("%s as %s: expected %d, got %d", tt.target, tt.role, tt.want, rec.Code)
		}
	}
}

func TestRouter_WriteRoutes(t *testing.T) {
	f := newRouterFixture(t)
	id := uuid.NewString()

	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		// an empty body fails decoding, which proves the route reached the handler
		if rec := f.do(t, method, "/api/v1/appointments/"+id, entity.RoleReceptionist); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 from handler, got %d", method, rec.Code)
		}
	}

	if rec := f.do(t, http.MethodPost, "/api/v1/appointments/"+id+"/confirm", entity.RoleDoctor); rec.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/api/v1/appointments/"+id, entity.RoleAdmin); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("delete: expected 405, got %d", rec.Code)
	}
}

func TestRouter_PatientWriteRoutes(t *testing.T) {
	f := newRouterFixture(t)
	id := uuid.NewString()

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodPatch, "/api/v1/appointments/" + id, http.StatusForbidden},
		{http.MethodPut, "/api/v1/appointments/" + id, http.StatusForbidden},
		{http.MethodPost, "/api/v1/appointments/" + id + "/confirm", http.StatusForbidden},
		{http.MethodPost, "/api/v1/appointments/" + id + "/cancel", http.StatusOK},
		// an empty body fails decoding in the handler
		{http.MethodPost, "/api/v1/appointments/" + id + "/reschedule", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/appointments", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := f.do(t, tt.method, tt.target, entity.RolePatient); rec.Code != tt.want {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.target, tt.want, rec.Code)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(t, http.MethodOptions, "/api/v1/appointments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

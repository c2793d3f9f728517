package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"hospital-appointment-service/config"
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/delivery/http/middleware"
	"hospital-appointment-service/internal/domain/entity"
	"hospital-appointment-service/internal/repository"
	"hospital-appointment-service/internal/service"
	"hospital-appointment-service/internal/testutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var testSchedulingConfig = config.SchedulingConfig{
	BookingLockTTL:     10 * time.Second,
	BookingLockWait:    5 * time.Second,
	DefaultPageSize:    20,
	MaxPageSize:        100,
	DefaultSlotMinutes: 30,
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) PublishAppointment(ctx context.Context, eventType string, appointment *entity.Appointment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return p.err
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type appointmentFixture struct {
	db        *gorm.DB
	usecase   AppointmentUsecase
	publisher *recordingPublisher
	doctorID  uuid.UUID
	patientID uuid.UUID
}

// newAppointmentFixture wires the usecase against sqlite with one doctor working
// 08:00-17:00 on Wednesdays and Thursdays and one patient.
func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	log := newTestLogger()

	locker := service.NewLocalBookingLocker(log, testSchedulingConfig.BookingLockWait)
	t.Cleanup(locker.Stop)

	publisher := &recordingPublisher{}
	uc := NewAppointmentUsecase(
		db,
		log,
		testSchedulingConfig,
		repository.NewAppointmentRepository(),
		service.NewDoctorOracle(db, log, repository.NewDoctorProfileRepository(), repository.NewDoctorScheduleRepository()),
		service.NewPatientOracle(db, log, repository.NewPatientProfileRepository()),
		locker,
		service.NewAuditService(db, log, repository.NewAuditLogRepository()),
		publisher,
	)

	return &appointmentFixture{
		db:        db,
		usecase:   uc,
		publisher: publisher,
		doctorID:  testutil.SeedDoctor(t, db, "Dr. Rina", "08:00", "17:00", time.Wednesday, time.Thursday),
		patientID: testutil.SeedPatient(t, db, "Budi"),
	}
}

func (f *appointmentFixture) createRequest(date, start, end string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		DoctorID:        f.doctorID,
		PatientID:       f.patientID,
		AppointmentDate: date,
		StartTime:       start,
		EndTime:         end,
		AppointmentType: string(entity.AppointmentTypeConsultation),
		Reason:          "Checkup",
	}
}

func (f *appointmentFixture) mustCreate(t *testing.T, date, start, end string) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.usecase.Create(context.Background(), f.createRequest(date, start, end))
	if err != nil {
		t.Fatalf("create %s %s-%s: %v", date, start, end, err)
	}
	return resp
}

func TestAppointmentUsecase_CreateScenario(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	// 2024-01-10 is a Wednesday
	existing := f.mustCreate(t, "2024-01-10", "09:00", "09:30")
	if existing.Status != string(entity.AppointmentStatusScheduled) {
		t.Fatalf("expected scheduled, got %s", existing.Status)
	}
	if existing.Doctor == nil || existing.Doctor.FullName != "Dr. Rina" {
		t.Fatalf("expected doctor summary, got %+v", existing.Doctor)
	}

	_, err := f.usecase.Create(ctx, f.createRequest("2024-01-10", "09:15", "09:45"))
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflictErr.Conflicts) != 1 || conflictErr.Conflicts[0].ID != existing.ID {
		t.Fatalf("expected conflict with %s, got %+v", existing.ID, conflictErr.Conflicts)
	}

	next, err := f.usecase.Create(ctx, f.createRequest("2024-01-10", "09:30", "10:00"))
	if err != nil {
		t.Fatalf("touching slot should be accepted: %v", err)
	}
	if next.ID == existing.ID {
		t.Fatal("expected a new appointment id")
	}
	if next.Status != string(entity.AppointmentStatusScheduled) {
		t.Fatalf("expected scheduled, got %s", next.Status)
	}

	events := f.publisher.Events()
	if len(events) != 2 || events[0] != service.EventAppointmentCreated {
		t.Fatalf("expected two created events, got %v", events)
	}
}

func TestAppointmentUsecase_CreateGates(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(req *dto.CreateAppointmentRequest)
		checkFn func(err error) bool
	}{
		{
			name:   "unknown patient",
			mutate: func(req *dto.CreateAppointmentRequest) { req.PatientID = uuid.New() },
			checkFn: func(err error) bool {
				var e *NotFoundError
				return errors.As(err, &e) && e.Resource == "patient"
			},
		},
		{
			name:   "unknown doctor",
			mutate: func(req *dto.CreateAppointmentRequest) { req.DoctorID = uuid.New() },
			checkFn: func(err error) bool {
				var e *NotFoundError
				return errors.As(err, &e) && e.Resource == "doctor"
			},
		},
		{
			name:   "patient is checked before doctor",
			mutate: func(req *dto.CreateAppointmentRequest) { req.PatientID = uuid.New(); req.DoctorID = uuid.New() },
			checkFn: func(err error) bool {
				var e *NotFoundError
				return errors.As(err, &e) && e.Resource == "patient"
			},
		},
		{
			name:   "outside working hours",
			mutate: func(req *dto.CreateAppointmentRequest) { req.StartTime = "16:45"; req.EndTime = "17:15" },
			checkFn: func(err error) bool {
				var e *ValidationError
				return errors.As(err, &e)
			},
		},
		{
			name:   "doctor off that weekday",
			mutate: func(req *dto.CreateAppointmentRequest) { req.AppointmentDate = "2024-01-12" },
			checkFn: func(err error) bool {
				var e *ValidationError
				return errors.As(err, &e)
			},
		},
		{
			name:   "zero length slot",
			mutate: func(req *dto.CreateAppointmentRequest) { req.EndTime = req.StartTime },
			checkFn: func(err error) bool {
				var e *ValidationError
				return errors.As(err, &e) && e.Fields["end_time"] != ""
			},
		},
		{
			name:   "end before start",
			mutate: func(req *dto.CreateAppointmentRequest) { req.StartTime = "11:00"; req.EndTime = "10:00" },
			checkFn: func(err error) bool {
				var e *ValidationError
				return errors.As(err, &e)
			},
		},
		{
			name:   "unknown type",
			mutate: func(req *dto.CreateAppointmentRequest) { req.AppointmentType = "surgery" },
			checkFn: func(err error) bool {
				var e *ValidationError
				return errors.As(err, &e) && e.Fields["appointment_type"] != ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.createRequest("2024-01-10", "10:00", "10:30")
			tt.mutate(req)
			_, err := f.usecase.Create(ctx, req)
			if !tt.checkFn(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	var count int64
	f.db.Model(&entity.Appointment{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed gates must not write, found %d appointments", count)
	}
}

func TestAppointmentUsecase_CreateRecordsCallerAndAudit(t *testing.T) {
	f := newAppointmentFixture(t)

	callerID := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, callerID)

	resp, err := f.usecase.Create(ctx, f.createRequest("2024-01-10", "09:00", "09:30"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.CreatedBy == nil || *resp.CreatedBy != callerID {
		t.Fatalf("expected created_by %s, got %v", callerID, resp.CreatedBy)
	}

	history, err := f.usecase.History(ctx, resp.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Total != 1 || history.Logs[0].Action != entity.AuditActionAppointmentCreate {
		t.Fatalf("expected one create entry, got %+v", history.Logs)
	}
	if history.Logs[0].UserID == nil || *history.Logs[0].UserID != callerID {
		t.Fatalf("expected audit user %s, got %v", callerID, history.Logs[0].UserID)
	}
}

func TestAppointmentUsecase_ConcurrentCreateBooksOnce(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	const attempts = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.usecase.Create(ctx, f.createRequest("2024-01-10", "09:00", "09:30"))

			mu.Lock()
			defer mu.Unlock()
			var conflictErr *ConflictError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &conflictErr):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 booking and %d conflicts, got %d and %d", attempts-1, succeeded, conflicts)
	}
}

func TestAppointmentUsecase_UpdateExcludesSelf(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	appointment := f.mustCreate(t, "2024-01-10", "09:00", "10:00")
	f.mustCreate(t, "2024-01-10", "10:00", "11:00")

	sameStart, sameEnd := "09:00", "10:00"
	if _, err := f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{StartTime: &sameStart, EndTime: &sameEnd}); err != nil {
		t.Fatalf("update to own slot must not conflict: %v", err)
	}

	shorter := "09:30"
	updated, err := f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{EndTime: &shorter})
	if err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if updated.StartTime != "09:00" || updated.EndTime != "09:30" {
		t.Fatalf("expected 09:00-09:30, got %s-%s", updated.StartTime, updated.EndTime)
	}

	longer := "10:30"
	_, err = f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{EndTime: &longer})
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestAppointmentUsecase_UpdatePartialFields(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	appointment := f.mustCreate(t, "2024-01-10", "09:00", "09:30")

	diagnosis := "Hypertension"
	updated, err := f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{Diagnosis: &diagnosis})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Diagnosis != diagnosis {
		t.Fatalf("expected diagnosis %q, got %q", diagnosis, updated.Diagnosis)
	}
	if updated.Reason != "Checkup" || updated.StartTime != "09:00" || updated.AppointmentDate != "2024-01-10" {
		t.Fatalf("unspecified fields must keep their value: %+v", updated)
	}

	if _, err := f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{}); err == nil {
		t.Fatal("expected error for empty update")
	}

	badEnd := "08:00"
	_, err = f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{EndTime: &badEnd})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for inverted slot, got %v", err)
	}

	_, err = f.usecase.Update(ctx, uuid.New(), &dto.UpdateAppointmentRequest{Diagnosis: &diagnosis})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAppointmentUsecase_UpdateStatusFollowsLifecycle(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	appointment := f.mustCreate(t, "2024-01-10", "09:00", "09:30")

	steps := []struct {
		status  entity.AppointmentStatus
		wantErr bool
	}{
		{entity.AppointmentStatusCompleted, true},
		{entity.AppointmentStatusConfirmed, false},
		{entity.AppointmentStatusScheduled, true},
		{entity.AppointmentStatusInProgress, false},
		{entity.AppointmentStatusCompleted, false},
		{entity.AppointmentStatusCancelled, true},
	}

	for _, step := range steps {
		status := string(step.status)
		_, err := f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{Status: &status})
		if step.wantErr {
			var transitionErr *TransitionError
			if !errors.As(err, &transitionErr) {
				t.Fatalf("-> %s: expected TransitionError, got %v", status, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("-> %s: %v", status, err)
		}
	}

	newDate := "2024-01-11"
	_, err := f.usecase.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{AppointmentDate: &newDate})
	var transitionErr *TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected TransitionError when moving a completed appointment, got %v", err)
	}
}

func TestAppointmentUsecase_Cancel(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	appointment := f.mustCreate(t, "2024-01-10", "09:00", "09:30")

	cancelled, err := f.usecase.Cancel(ctx, appointment.ID, &dto.CancelAppointmentRequest{Reason: "Patient travelling"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != string(entity.AppointmentStatusCancelled) || cancelled.Notes != "Patient travelling" {
		t.Fatalf("unexpected cancelled appointment: %+v", cancelled)
	}

	_, err = f.usecase.Cancel(ctx, appointment.ID, &dto.CancelAppointmentRequest{})
	var transitionErr *TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("second cancel: expected TransitionError, got %v", err)
	}

	// The freed slot can be booked again
	f.mustCreate(t, "2024-01-10", "09:00", "09:30")
}

func TestAppointmentUsecase_CancelCompletedFails(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	completed := testutil.SeedAppointment(t, f.db, f.doctorID, f.patientID, "2024-01-10", "09:00", "09:30", entity.AppointmentStatusCompleted)

	_, err := f.usecase.Cancel(ctx, completed.ID, &dto.CancelAppointmentRequest{Reason: "late"})
	var transitionErr *TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}

	current, err := f.usecase.GetByID(ctx, completed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.Status != string(entity.AppointmentStatusCompleted) {
		t.Fatalf("status must not change, got %s", current.Status)
	}
}

func TestAppointmentUsecase_Confirm(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	req := f.createRequest("2024-01-10", "09:00", "09:30")
	req.Notes = "Bring lab results"
	appointment, err := f.usecase.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	confirmed, err := f.usecase.Confirm(ctx, appointment.ID, &dto.ConfirmAppointmentRequest{Notes: "Confirmed by phone"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != string(entity.AppointmentStatusConfirmed) {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}
	if confirmed.Notes != "Bring lab results\nConfirmed by phone" {
		t.Fatalf("unexpected notes %q", confirmed.Notes)
	}

	_, err = f.usecase.Confirm(ctx, appointment.ID, &dto.ConfirmAppointmentRequest{})
	var transitionErr *TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("confirming twice: expected TransitionError, got %v", err)
	}
}

func TestAppointmentUsecase_RescheduleScenario(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	appointment := f.mustCreate(t, "2024-01-10", "09:00", "09:30")

	moved, err := f.usecase.Reschedule(ctx, appointment.ID, &dto.RescheduleAppointmentRequest{
		AppointmentDate: "2024-01-11",
		StartTime:       "14:00",
		EndTime:         "14:30",
		Reason:          "Doctor in surgery",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.AppointmentDate != "2024-01-11" || moved.StartTime != "14:00" || moved.EndTime != "14:30" {
		t.Fatalf("unexpected schedule %s %s-%s", moved.AppointmentDate, moved.StartTime, moved.EndTime)
	}
	if !strings.HasPrefix(moved.Notes, "Rescheduled:") {
		t.Fatalf("expected Rescheduled: prefix, got %q", moved.Notes)
	}
	if moved.Status != string(entity.AppointmentStatusScheduled) {
		t.Fatalf("reschedule must keep status, got %s", moved.Status)
	}

	// Old slot is free again
	f.mustCreate(t, "2024-01-10", "09:00", "09:30")

	blocker := f.mustCreate(t, "2024-01-11", "15:00", "16:00")
	_, err = f.usecase.Reschedule(ctx, appointment.ID, &dto.RescheduleAppointmentRequest{
		AppointmentDate: "2024-01-11",
		StartTime:       "15:30",
		EndTime:         "16:30",
	})
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflictErr.Conflicts) != 1 || conflictErr.Conflicts[0].ID != blocker.ID {
		t.Fatalf("expected conflict with %s, got %+v", blocker.ID, conflictErr.Conflicts)
	}

	history, err := f.usecase.History(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Total != 2 || history.Logs[1].Action != entity.AuditActionAppointmentReschedule {
		t.Fatalf("expected create and reschedule entries, got %+v", history.Logs)
	}
}

func TestAppointmentUsecase_RescheduleWithoutReasonKeepsNotes(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	req := f.createRequest("2024-01-10", "09:00", "09:30")
	req.Notes = "Fasting"
	appointment, err := f.usecase.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	moved, err := f.usecase.Reschedule(ctx, appointment.ID, &dto.RescheduleAppointmentRequest{
		AppointmentDate: "2024-01-10",
		StartTime:       "09:15",
		EndTime:         "09:45",
	})
	if err != nil {
		t.Fatalf("overlapping only itself must succeed: %v", err)
	}
	if moved.Notes != "Fasting" {
		t.Fatalf("expected notes unchanged, got %q", moved.Notes)
	}
}

func TestAppointmentUsecase_PublishFailureDoesNotFailCreate(t *testing.T) {
	f := newAppointmentFixture(t)
	f.publisher.err = errors.New("hub down")

	if _, err := f.usecase.Create(context.Background(), f.createRequest("2024-01-10", "09:00", "09:30")); err != nil {
		t.Fatalf("publish errors must be swallowed: %v", err)
	}
}

func TestAppointmentUsecase_ListPaginates(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	start := entity.MustParseTimeOfDay("08:00")
	for i := 0; i < 25; i++ {
		slotStart := start.Add(time.Duration(i*20) * time.Minute)
		slotEnd := slotStart.Add(20 * time.Minute)
		f.mustCreate(t, "2024-01-10", slotStart.String(), slotEnd.String())
	}

	first, err := f.usecase.List(ctx, &dto.AppointmentListRequest{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	second, err := f.usecase.List(ctx, &dto.AppointmentListRequest{Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}

	if first.Total != 25 || len(first.Appointments) != 20 || len(second.Appointments) != 5 {
		t.Fatalf("unexpected pages: total=%d, %d + %d", first.Total, len(first.Appointments), len(second.Appointments))
	}

	seen := make(map[uuid.UUID]bool)
	for _, a := range first.Appointments {
		seen[a.ID] = true
	}
	for _, a := range second.Appointments {
		if seen[a.ID] {
			t.Fatalf("appointment %s appears on both pages", a.ID)
		}
	}
	if first.Appointments[0].StartTime != "08:00" || second.Appointments[4].StartTime != "16:00" {
		t.Fatalf("expected ordering by start time, got %s and %s", first.Appointments[0].StartTime, second.Appointments[4].StartTime)
	}
}

func TestAppointmentUsecase_ListDefaultsAndFilters(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	f.mustCreate(t, "2024-01-10", "09:00", "09:30")
	withNote := f.createRequest("2024-01-11", "10:00", "10:30")
	withNote.Reason = "Follow-up on CHEST pain"
	if _, err := f.usecase.Create(ctx, withNote); err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := f.usecase.List(ctx, &dto.AppointmentListRequest{Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Page != 1 || resp.Limit != 100 {
		t.Fatalf("expected page 1 and capped limit 100, got %d/%d", resp.Page, resp.Limit)
	}

	resp, err = f.usecase.List(ctx, &dto.AppointmentListRequest{Search: "chest", DoctorID: f.doctorID.String()})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 1 || resp.Appointments[0].AppointmentDate != "2024-01-11" {
		t.Fatalf("expected the chest pain appointment, got %+v", resp.Appointments)
	}

	resp, err = f.usecase.List(ctx, &dto.AppointmentListRequest{DateFrom: "2024-01-11", DateTo: "2024-01-31"})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 appointment in range, got %d", resp.Total)
	}

	_, err = f.usecase.List(ctx, &dto.AppointmentListRequest{DateFrom: "2024-02-01", DateTo: "2024-01-01"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for inverted range, got %v", err)
	}
}

func TestAppointmentUsecase_NeverOverlaps(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	requests := [][2]string{
		{"09:00", "10:00"}, {"10:00", "11:00"}, {"09:30", "10:30"}, {"08:00", "09:00"},
		{"08:30", "09:15"}, {"11:00", "11:30"}, {"10:59", "11:01"}, {"12:00", "13:00"},
	}
	for _, r := range requests {
		_, _ = f.usecase.Create(ctx, f.createRequest("2024-01-10", r[0], r[1]))
	}

	date, _ := entity.ParseDate("2024-01-10")
	active, err := repository.NewAppointmentRepository().FindActiveByDoctorAndDate(ctx, f.db, f.doctorID, date, uuid.Nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(active) != 5 {
		t.Fatalf("expected 5 accepted bookings, got %d", len(active))
	}
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			if active[i].Slot().Overlaps(active[j].Slot()) {
				t.Fatalf("overlap between %s and %s", active[i].Slot(), active[j].Slot())
			}
		}
	}
}

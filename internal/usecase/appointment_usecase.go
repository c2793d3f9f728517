package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"hospital-appointment-service/config"
	"hospital-appointment-service/internal/converter"
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/delivery/http/middleware"
	"hospital-appointment-service/internal/domain/entity"
	"hospital-appointment-service/internal/domain/repository"
	"hospital-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	List(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	Confirm(ctx context.Context, id uuid.UUID, req *dto.ConfirmAppointmentRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	History(ctx context.Context, id uuid.UUID) (*dto.AuditLogListResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	cfg             config.SchedulingConfig
	appointmentRepo repository.AppointmentRepository
	doctorOracle    service.DoctorOracle
	patientOracle   service.PatientOracle
	locker          service.BookingLocker
	auditService    service.AuditService
	publisher       service.EventPublisher
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	appointmentRepo repository.AppointmentRepository,
	doctorOracle service.DoctorOracle,
	patientOracle service.PatientOracle,
	locker service.BookingLocker,
	auditService service.AuditService,
	publisher service.EventPublisher,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		cfg:             cfg,
		appointmentRepo: appointmentRepo,
		doctorOracle:    doctorOracle,
		patientOracle:   patientOracle,
		locker:          locker,
		auditService:    auditService,
		publisher:       publisher,
	}
}

// Create books a new appointment.
//
// Flow (each step short-circuits):
// 1. Patient exists
// 2. Doctor exists
// 3. Doctor works during the requested window
// 4. No active appointment of the doctor overlaps the window
// 5. Insert with status scheduled and write the audit entry in one transaction
//
// Steps 4 and 5 run under the doctor-day booking lock; the database
// exclusion constraint rejects any overlap that still slips through.
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, slot, err := parseSchedule(req.AppointmentDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	appointmentType := entity.AppointmentType(req.AppointmentType)
	if !appointmentType.IsValid() {
		return nil, newFieldError("appointment_type", "appointment_type is invalid")
	}

	if patientID, scoped := patientScope(ctx); scoped && req.PatientID != patientID {
		return nil, &ForbiddenError{Message: "patients can only book appointments for themselves"}
	}

	// Step 1: Patient
	ok, err := u.patientOracle.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, internalError("check patient", err)
	}
	if !ok {
		return nil, &NotFoundError{Resource: "patient", ID: req.PatientID.String()}
	}

	// Step 2: Doctor
	ok, err = u.doctorOracle.Exists(ctx, req.DoctorID)
	if err != nil {
		return nil, internalError("check doctor", err)
	}
	if !ok {
		return nil, &NotFoundError{Resource: "doctor", ID: req.DoctorID.String()}
	}

	// Step 3: Working hours
	ok, err = u.doctorOracle.IsAvailable(ctx, req.DoctorID, date, slot)
	if err != nil {
		return nil, internalError("check doctor availability", err)
	}
	if !ok {
		return nil, newValidationError("doctor is not available at the requested time")
	}

	release, err := u.acquire(ctx, req.DoctorID, date)
	if err != nil {
		return nil, err
	}
	defer release()

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		StartTime:       slot.Start,
		EndTime:         slot.End,
		AppointmentType: appointmentType,
		Status:          entity.AppointmentStatusScheduled,
		Reason:          strings.TrimSpace(req.Reason),
		Notes:           strings.TrimSpace(req.Notes),
	}

	userID, hasUser := middleware.GetUserIDFromContext(ctx)
	if hasUser {
		appointment.CreatedBy = &userID
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Step 4: Conflicts
	if err := u.checkConflicts(ctx, tx, appointment.DoctorID, date, slot, uuid.Nil); err != nil {
		return nil, err
	}

	// Step 5: Persist
	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		if isExclusionViolation(err, appointmentOverlapConstraint) {
			return nil, &ConflictError{Message: "the requested time overlaps another appointment"}
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, internalError("create appointment", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, actor(ctx), entity.AuditActionAppointmentCreate, entity.AuditEntityAppointment, appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return nil, internalError("audit appointment create", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment creation: %+v", err)
		return nil, internalError("commit appointment", err)
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, patient=%s, date=%s, slot=%s", appointment.ID, appointment.DoctorID, appointment.PatientID, entity.FormatDate(date), slot)
	return u.finish(ctx, service.EventAppointmentCreated, appointment), nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// List returns one page of appointments matching all provided filters
func (u *appointmentUsecase) List(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	filter, err := buildAppointmentFilter(req)
	if err != nil {
		return nil, err
	}
	if patientID, scoped := patientScope(ctx); scoped {
		filter.PatientID = &patientID
	}

	page, limit := u.pagination(req.Page, req.Limit)
	offset := (page - 1) * limit

	appointments, total, err := u.appointmentRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, internalError("list appointments", err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Page:         page,
		Limit:        limit,
		Total:        total,
	}, nil
}

// Update applies a partial change. Changing the date or either time re-runs the
// conflict check against the doctor's other appointments.
func (u *appointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := denyPatients(ctx, "edit"); err != nil {
		return nil, err
	}

	current, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	update, err := buildAppointmentUpdate(req)
	if err != nil {
		return nil, err
	}

	allowedFrom := []entity.AppointmentStatus(nil)

	if update.Status != nil {
		if *update.Status == current.Status {
			update.Status = nil
		} else {
			if !current.Status.CanTransitionTo(*update.Status) {
				return nil, &TransitionError{From: current.Status, To: *update.Status}
			}
			allowedFrom = []entity.AppointmentStatus{current.Status}
		}
	}

	if update.TouchesSchedule() {
		if current.Status.IsTerminal() {
			return nil, &TransitionError{From: current.Status, Action: "reschedule"}
		}
		if allowedFrom == nil {
			allowedFrom = entity.ActiveAppointmentStatuses
		}
	}

	if update.IsEmpty() {
		return nil, newValidationError("no fields to update")
	}

	return u.change(ctx, current, appointmentChange{
		update:      update,
		allowedFrom: allowedFrom,
		checkSlot:   update.TouchesSchedule(),
		auditAction: entity.AuditActionAppointmentUpdate,
		eventType:   service.EventAppointmentUpdated,
	})
}

// Cancel moves an active appointment to cancelled and keeps the reason in notes.
// Cancelling a terminal appointment, including a second cancel, is rejected.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	current, err := u.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}

	target := entity.AppointmentStatusCancelled
	if !current.Status.CanTransitionTo(target) {
		return nil, &TransitionError{From: current.Status, To: target, Action: "cancel"}
	}

	update := entity.AppointmentUpdate{Status: &target}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		update.Notes = &reason
	}

	return u.change(ctx, current, appointmentChange{
		update:      update,
		allowedFrom: entity.ActiveAppointmentStatuses,
		auditAction: entity.AuditActionAppointmentCancel,
		eventType:   service.EventAppointmentCancelled,
	})
}

// Confirm moves a scheduled appointment to confirmed, appending notes when given
func (u *appointmentUsecase) Confirm(ctx context.Context, id uuid.UUID, req *dto.ConfirmAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := denyPatients(ctx, "confirm"); err != nil {
		return nil, err
	}

	current, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	target := entity.AppointmentStatusConfirmed
	if current.Status != entity.AppointmentStatusScheduled {
		return nil, &TransitionError{From: current.Status, To: target, Action: "confirm"}
	}

	update := entity.AppointmentUpdate{Status: &target}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		merged := notes
		if current.Notes != "" {
			merged = current.Notes + "\n" + notes
		}
		update.Notes = &merged
	}

	return u.change(ctx, current, appointmentChange{
		update:      update,
		allowedFrom: []entity.AppointmentStatus{entity.AppointmentStatusScheduled},
		auditAction: entity.AuditActionAppointmentConfirm,
		eventType:   service.EventAppointmentConfirmed,
	})
}

// Reschedule moves the appointment to a new date and window, keeping its status.
// A reason is recorded in notes as "Rescheduled: <reason>".
func (u *appointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	current, err := u.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status.IsTerminal() {
		return nil, &TransitionError{From: current.Status, Action: "reschedule"}
	}

	date, slot, err := parseSchedule(req.AppointmentDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	update := entity.AppointmentUpdate{
		AppointmentDate: &date,
		StartTime:       &slot.Start,
		EndTime:         &slot.End,
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		notes := "Rescheduled: " + reason
		update.Notes = &notes
	}

	return u.change(ctx, current, appointmentChange{
		update:      update,
		allowedFrom: entity.ActiveAppointmentStatuses,
		checkSlot:   true,
		auditAction: entity.AuditActionAppointmentReschedule,
		eventType:   service.EventAppointmentRescheduled,
	})
}

// History returns the audit trail of an appointment, oldest first
func (u *appointmentUsecase) History(ctx context.Context, id uuid.UUID) (*dto.AuditLogListResponse, error) {
	if _, err := u.findVisible(ctx, id); err != nil {
		return nil, err
	}

	logs, err := u.auditService.History(ctx, entity.AuditEntityAppointment, id.String())
	if err != nil {
		return nil, internalError("load appointment history", err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

// appointmentChange describes one guarded mutation of an existing appointment
type appointmentChange struct {
	update      entity.AppointmentUpdate
	allowedFrom []entity.AppointmentStatus
	checkSlot   bool
	auditAction string
	eventType   string
}

// change writes the update and its audit entry atomically.
// The write only lands while the stored status is still one of allowedFrom,
// so a concurrent transition turns into a TransitionError instead of a lost update.
func (u *appointmentUsecase) change(ctx context.Context, current *entity.Appointment, change appointmentChange) (*dto.AppointmentResponse, error) {
	next := *current
	change.update.Apply(&next)

	if change.checkSlot {
		slot, err := entity.NewTimeSlot(next.StartTime, next.EndTime)
		if err != nil {
			return nil, newFieldError("end_time", "start_time must be before end_time")
		}

		release, err := u.acquire(ctx, next.DoctorID, next.AppointmentDate)
		if err != nil {
			return nil, err
		}
		defer release()

		tx := u.db.WithContext(ctx).Begin()
		defer tx.Rollback()

		if err := u.checkConflicts(ctx, tx, next.DoctorID, next.AppointmentDate, slot, current.ID); err != nil {
			return nil, err
		}
		return u.write(ctx, tx, current, &next, change)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	return u.write(ctx, tx, current, &next, change)
}

func (u *appointmentUsecase) write(ctx context.Context, tx *gorm.DB, current, next *entity.Appointment, change appointmentChange) (*dto.AppointmentResponse, error) {
	affected, err := u.appointmentRepo.Update(ctx, tx, current.ID, change.update.Columns(), change.allowedFrom)
	if err != nil {
		if isExclusionViolation(err, appointmentOverlapConstraint) {
			return nil, &ConflictError{Message: "the requested time overlaps another appointment"}
		}
		u.log.Warnf("Failed to update appointment %s: %+v", current.ID, err)
		return nil, internalError("update appointment", err)
	}
	if affected == 0 {
		// Status moved on between the read and the guarded write
		tx.Rollback()
		latest, err := u.find(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		return nil, &TransitionError{From: latest.Status, To: next.Status}
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor(ctx), change.auditAction, entity.AuditEntityAppointment, current.ID.String(),
		converter.AppointmentToResponse(current), converter.AppointmentToResponse(next)); err != nil {
		return nil, internalError("audit appointment change", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment %s change: %+v", current.ID, err)
		return nil, internalError("commit appointment change", err)
	}

	u.log.Infof("Appointment %s: id=%s, status=%s -> %s", change.auditAction, current.ID, current.Status, next.Status)
	return u.finish(ctx, change.eventType, next), nil
}

// checkConflicts loads the doctor's active appointments on date through db and
// fails with ConflictError when any of them overlaps slot
func (u *appointmentUsecase) checkConflicts(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) error {
	existing, err := u.appointmentRepo.FindActiveByDoctorAndDate(ctx, db, doctorID, date, excludeID)
	if err != nil {
		u.log.Warnf("Failed to load appointments of doctor %s on %s: %+v", doctorID, entity.FormatDate(date), err)
		return internalError("load doctor appointments", err)
	}

	if conflict, conflicts := entity.CheckConflicts(slot, existing, excludeID); conflict {
		u.log.Infof("Booking conflict: doctor=%s, date=%s, slot=%s, conflicts=%d", doctorID, entity.FormatDate(date), slot, len(conflicts))
		return &ConflictError{
			Message:   "the requested time overlaps another appointment",
			Conflicts: conflicts,
		}
	}
	return nil
}

// finish reloads the committed appointment with its summaries and announces it.
// Publishing is best effort; the change is already durable.
func (u *appointmentUsecase) finish(ctx context.Context, eventType string, appointment *entity.Appointment) *dto.AppointmentResponse {
	loaded, err := u.appointmentRepo.FindByID(ctx, u.db, appointment.ID)
	if err != nil || loaded == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		loaded = appointment
	}

	if err := u.publisher.PublishAppointment(ctx, eventType, loaded); err != nil {
		u.log.Warnf("Failed to publish %s for appointment %s: %+v", eventType, appointment.ID, err)
	}

	return converter.AppointmentToResponse(loaded)
}

func (u *appointmentUsecase) find(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, internalError("find appointment", err)
	}
	if appointment == nil {
		return nil, &NotFoundError{Resource: "appointment", ID: id.String()}
	}
	return appointment, nil
}

func (u *appointmentUsecase) acquire(ctx context.Context, doctorID uuid.UUID, date time.Time) (func(), error) {
	release, err := u.locker.Acquire(ctx, doctorID, date)
	if err != nil {
		if errors.Is(err, service.ErrLockNotAcquired) {
			return nil, &ConflictError{Message: "the slot is being booked concurrently, try again"}
		}
		return nil, internalError("acquire booking lock", err)
	}
	return release, nil
}

func (u *appointmentUsecase) pagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = u.cfg.DefaultPageSize
	}
	if limit > u.cfg.MaxPageSize {
		limit = u.cfg.MaxPageSize
	}
	return page, limit
}

// actor returns the authenticated caller, if any
func actor(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}

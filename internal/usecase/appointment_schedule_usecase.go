package usecase

import (
	"context"
	"time"

	"hospital-appointment-service/config"
	"hospital-appointment-service/internal/converter"
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/domain/entity"
	"hospital-appointment-service/internal/domain/repository"
	"hospital-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppointmentScheduleUsecase serves the read-side views built from many appointments
type AppointmentScheduleUsecase interface {
	Calendar(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarResponse, error)
	WeeklySchedule(ctx context.Context, req *dto.WeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error)
	AvailableSlots(ctx context.Context, req *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error)
	Stats(ctx context.Context) (*dto.AppointmentStatsResponse, error)
	DoctorStats(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorAppointmentStatsResponse, error)
}

type appointmentScheduleUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	cfg             config.SchedulingConfig
	appointmentRepo repository.AppointmentRepository
	doctorOracle    service.DoctorOracle
	now             func() time.Time
}

func NewAppointmentScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	appointmentRepo repository.AppointmentRepository,
	doctorOracle service.DoctorOracle,
) AppointmentScheduleUsecase {
	return &appointmentScheduleUsecase{
		db:              db,
		log:             log,
		cfg:             cfg,
		appointmentRepo: appointmentRepo,
		doctorOracle:    doctorOracle,
		now:             time.Now,
	}
}

// Calendar groups the visible appointments of a day, week or month by date.
// Dates without appointments are omitted.
func (u *appointmentScheduleUsecase) Calendar(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarResponse, error) {
	anchor := entity.DateOf(u.now())
	if req.Date != "" {
		date, err := entity.ParseDate(req.Date)
		if err != nil {
			return nil, newFieldError("date", err.Error())
		}
		anchor = date
	}

	view := entity.CalendarViewMonth
	if req.View != "" {
		view = entity.CalendarView(req.View)
		if !view.IsValid() {
			return nil, newFieldError("view", "view must be one of day, week, month")
		}
	}

	start, end := entity.DateRange(anchor, view)
	filter := &entity.AppointmentFilter{
		DateFrom: &start,
		DateTo:   &end,
		Statuses: entity.CalendarAppointmentStatuses,
	}

	if req.DoctorID != "" {
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			return nil, newFieldError("doctor_id", "doctor_id must be a valid UUID")
		}
		filter.DoctorID = &doctorID
	}
	if patientID, scoped := patientScope(ctx); scoped {
		filter.PatientID = &patientID
	}

	appointments, err := u.appointmentRepo.FindAllByFilter(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to load calendar %s..%s: %+v", entity.FormatDate(start), entity.FormatDate(end), err)
		return nil, internalError("load calendar", err)
	}

	days := make(map[string][]dto.AppointmentSummary)
	for i := range appointments {
		key := entity.FormatDate(appointments[i].AppointmentDate)
		days[key] = append(days[key], converter.AppointmentToSummary(&appointments[i]))
	}

	return &dto.CalendarResponse{
		View:      string(view),
		StartDate: entity.FormatDate(start),
		EndDate:   entity.FormatDate(end),
		Total:     len(appointments),
		Days:      days,
	}, nil
}

// WeeklySchedule lists a doctor's active appointments for seven days from the week start.
// Every day of the week is present in the result, empty or not.
func (u *appointmentScheduleUsecase) WeeklySchedule(ctx context.Context, req *dto.WeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error) {
	if err := u.requireDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	start := entity.WeekStart(u.now())
	if req.WeekStart != "" {
		date, err := entity.ParseDate(req.WeekStart)
		if err != nil {
			return nil, newFieldError("week_start", err.Error())
		}
		start = date
	}
	end := start.AddDate(0, 0, 6)

	schedule := make(map[string][]dto.AppointmentSummary, 7)
	for _, date := range entity.DatesBetween(start, end) {
		schedule[entity.FormatDate(date)] = []dto.AppointmentSummary{}
	}

	doctorID := req.DoctorID
	filter := &entity.AppointmentFilter{
		DoctorID: &doctorID,
		DateFrom: &start,
		DateTo:   &end,
		Statuses: entity.ActiveAppointmentStatuses,
	}
	if patientID, scoped := patientScope(ctx); scoped {
		filter.PatientID = &patientID
	}

	appointments, err := u.appointmentRepo.FindAllByFilter(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to load weekly schedule of doctor %s: %+v", doctorID, err)
		return nil, internalError("load weekly schedule", err)
	}

	for i := range appointments {
		key := entity.FormatDate(appointments[i].AppointmentDate)
		schedule[key] = append(schedule[key], converter.AppointmentToSummary(&appointments[i]))
	}

	return &dto.WeeklyScheduleResponse{
		DoctorID:  doctorID,
		WeekStart: entity.FormatDate(start),
		WeekEnd:   entity.FormatDate(end),
		Schedule:  schedule,
	}, nil
}

// AvailableSlots cuts the doctor's working windows into bookable slots and
// drops every slot that overlaps an active appointment.
func (u *appointmentScheduleUsecase) AvailableSlots(ctx context.Context, req *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, newFieldError("doctor_id", "doctor_id must be a valid UUID")
	}
	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, newFieldError("date", err.Error())
	}

	minutes := req.Duration
	if minutes <= 0 {
		minutes = u.cfg.DefaultSlotMinutes
	}

	if err := u.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	windows, err := u.doctorOracle.WorkingHours(ctx, doctorID, date)
	if err != nil {
		return nil, internalError("load working hours", err)
	}

	booked, err := u.appointmentRepo.FindActiveByDoctorAndDate(ctx, u.db, doctorID, date, uuid.Nil)
	if err != nil {
		u.log.Warnf("Failed to load appointments of doctor %s on %s: %+v", doctorID, entity.FormatDate(date), err)
		return nil, internalError("load doctor appointments", err)
	}

	free := make([]entity.TimeSlot, 0)
	for _, window := range windows {
		for _, slot := range window.Split(time.Duration(minutes) * time.Minute) {
			if conflict, _ := entity.CheckConflicts(slot, booked, uuid.Nil); !conflict {
				free = append(free, slot)
			}
		}
	}

	return &dto.AvailableSlotsResponse{
		DoctorID:        doctorID,
		Date:            entity.FormatDate(date),
		DurationMinutes: minutes,
		WorkingHours:    converter.TimeSlotsToResponses(windows),
		Slots:           converter.TimeSlotsToResponses(free),
	}, nil
}

// Stats counts every appointment by status, type and recency
func (u *appointmentScheduleUsecase) Stats(ctx context.Context) (*dto.AppointmentStatsResponse, error) {
	appointments, err := u.appointmentRepo.FindAllByFilter(ctx, u.db, &entity.AppointmentFilter{})
	if err != nil {
		u.log.Warnf("Failed to load appointment stats: %+v", err)
		return nil, internalError("load appointment stats", err)
	}

	stats := countAppointments(appointments, u.now())
	return &stats, nil
}

// DoctorStats is Stats restricted to one doctor, plus the number of distinct
// patients and the share of appointments that reached completed.
func (u *appointmentScheduleUsecase) DoctorStats(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorAppointmentStatsResponse, error) {
	if err := u.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAllByFilter(ctx, u.db, &entity.AppointmentFilter{DoctorID: &doctorID})
	if err != nil {
		u.log.Warnf("Failed to load stats of doctor %s: %+v", doctorID, err)
		return nil, internalError("load doctor stats", err)
	}

	patients := make(map[uuid.UUID]struct{})
	for _, appointment := range appointments {
		patients[appointment.PatientID] = struct{}{}
	}

	stats := countAppointments(appointments, u.now())

	completionRate := decimal.Zero
	if stats.Total > 0 {
		completed := stats.ByStatus[string(entity.AppointmentStatusCompleted)]
		completionRate = decimal.NewFromInt(completed).Div(decimal.NewFromInt(stats.Total)).Round(4)
	}

	return &dto.DoctorAppointmentStatsResponse{
		DoctorID:                 doctorID,
		AppointmentStatsResponse: stats,
		UniquePatients:           int64(len(patients)),
		CompletionRate:           completionRate,
	}, nil
}

func (u *appointmentScheduleUsecase) requireDoctor(ctx context.Context, doctorID uuid.UUID) error {
	ok, err := u.doctorOracle.Exists(ctx, doctorID)
	if err != nil {
		return internalError("check doctor", err)
	}
	if !ok {
		return &NotFoundError{Resource: "doctor", ID: doctorID.String()}
	}
	return nil
}

// countAppointments tallies appointments in memory. Every known status and type
// is present in the maps, zero when unused.
func countAppointments(appointments []entity.Appointment, now time.Time) dto.AppointmentStatsResponse {
	stats := dto.AppointmentStatsResponse{
		ByStatus: make(map[string]int64, len(entity.AllAppointmentStatuses)),
		ByType:   make(map[string]int64, len(entity.AllAppointmentTypes)),
	}
	for _, status := range entity.AllAppointmentStatuses {
		stats.ByStatus[string(status)] = 0
	}
	for _, appointmentType := range entity.AllAppointmentTypes {
		stats.ByType[string(appointmentType)] = 0
	}

	today := entity.DateOf(now)
	weekStart, weekEnd := entity.DateRange(today, entity.CalendarViewWeek)
	monthStart, monthEnd := entity.DateRange(today, entity.CalendarViewMonth)

	for _, appointment := range appointments {
		stats.Total++
		stats.ByStatus[string(appointment.Status)]++
		stats.ByType[string(appointment.AppointmentType)]++

		date := entity.DateOf(appointment.AppointmentDate)
		if date.Equal(today) {
			stats.Today++
		}
		if !date.Before(weekStart) && !date.After(weekEnd) {
			stats.ThisWeek++
		}
		if !date.Before(monthStart) && !date.After(monthEnd) {
			stats.ThisMonth++
		}
	}

	return stats
}

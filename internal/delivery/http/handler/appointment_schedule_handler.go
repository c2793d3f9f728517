package handler

import (
	"net/http"

	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/usecase"
	"hospital-appointment-service/pkg/response"
	"hospital-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentScheduleHandler struct {
	scheduleUsecase usecase.AppointmentScheduleUsecase
	validator       *validator.CustomValidator
	errors          *ErrorResponder
}

func NewAppointmentScheduleHandler(scheduleUsecase usecase.AppointmentScheduleUsecase, validator *validator.CustomValidator, errors *ErrorResponder) *AppointmentScheduleHandler {
	return &AppointmentScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
		errors:          errors,
	}
}

func (h *AppointmentScheduleHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.CalendarRequest{
		Date:     query.Get("date"),
		DoctorID: query.Get("doctor_id"),
		View:     query.Get("view"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	calendar, err := h.scheduleUsecase.Calendar(r.Context(), &req)
	if err != nil {
		h.errors.Write(w, r, err, "Failed to get calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", calendar)
}

func (h *AppointmentScheduleHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.AvailableSlotsRequest{
		DoctorID: query.Get("doctor_id"),
		Date:     query.Get("date"),
	}

	var err error
	if req.Duration, err = intQuery(query.Get("duration")); err != nil {
		response.ValidationError(w, map[string]string{"duration": "duration must be a number"})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.scheduleUsecase.AvailableSlots(r.Context(), &req)
	if err != nil {
		h.errors.Write(w, r, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *AppointmentScheduleHandler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := doctorID(w, r)
	if !ok {
		return
	}

	req := dto.WeeklyScheduleRequest{
		DoctorID:  doctorID,
		WeekStart: r.URL.Query().Get("week_start"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.WeeklySchedule(r.Context(), &req)
	if err != nil {
		h.errors.Write(w, r, err, "Failed to get weekly schedule")
		return
	}

	response.Success(w, http.StatusOK, "Weekly schedule retrieved successfully", schedule)
}

func (h *AppointmentScheduleHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scheduleUsecase.Stats(r.Context())
	if err != nil {
		h.errors.Write(w, r, err, "Failed to get appointment stats")
		return
	}

	response.Success(w, http.StatusOK, "Appointment stats retrieved successfully", stats)
}

func (h *AppointmentScheduleHandler) GetDoctorStats(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := doctorID(w, r)
	if !ok {
		return
	}

	stats, err := h.scheduleUsecase.DoctorStats(r.Context(), doctorID)
	if err != nil {
		h.errors.Write(w, r, err, "Failed to get doctor stats")
		return
	}

	response.Success(w, http.StatusOK, "Doctor stats retrieved successfully", stats)
}

func doctorID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

package usecase

import (
	"strings"
	"time"

	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// parseSchedule reads a date and a start/end pair into a validated slot
func parseSchedule(date, start, end string) (time.Time, entity.TimeSlot, error) {
	day, err := entity.ParseDate(date)
	if err != nil {
		return time.Time{}, entity.TimeSlot{}, newFieldError("appointment_date", err.Error())
	}

	startTime, err := entity.ParseTimeOfDay(start)
	if err != nil {
		return time.Time{}, entity.TimeSlot{}, newFieldError("start_time", "start_time must use HH:MM")
	}
	endTime, err := entity.ParseTimeOfDay(end)
	if err != nil {
		return time.Time{}, entity.TimeSlot{}, newFieldError("end_time", "end_time must use HH:MM")
	}

	slot, err := entity.NewTimeSlot(startTime, endTime)
	if err != nil {
		return time.Time{}, entity.TimeSlot{}, newFieldError("end_time", "start_time must be before end_time")
	}

	return day, slot, nil
}

// buildAppointmentFilter converts list query parameters into a domain filter
func buildAppointmentFilter(req *dto.AppointmentListRequest) (*entity.AppointmentFilter, error) {
	filter := &entity.AppointmentFilter{}

	if req.DoctorID != "" {
		id, err := uuid.Parse(req.DoctorID)
		if err != nil {
			return nil, newFieldError("doctor_id", "doctor_id must be a valid UUID")
		}
		filter.DoctorID = &id
	}
	if req.PatientID != "" {
		id, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, newFieldError("patient_id", "patient_id must be a valid UUID")
		}
		filter.PatientID = &id
	}

	var err error
	if filter.Date, err = optionalDate("date", req.Date); err != nil {
		return nil, err
	}
	if filter.DateFrom, err = optionalDate("date_from", req.DateFrom); err != nil {
		return nil, err
	}
	if filter.DateTo, err = optionalDate("date_to", req.DateTo); err != nil {
		return nil, err
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, newFieldError("date_to", "date_to must not be before date_from")
	}

	if req.Status != "" {
		status := entity.AppointmentStatus(req.Status)
		if !status.IsValid() {
			return nil, newFieldError("status", "status is invalid")
		}
		filter.Status = &status
	}
	if req.Type != "" {
		appointmentType := entity.AppointmentType(req.Type)
		if !appointmentType.IsValid() {
			return nil, newFieldError("type", "type is invalid")
		}
		filter.Type = &appointmentType
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		filter.Search = &search
	}

	return filter, nil
}

// buildAppointmentUpdate converts a partial update request; absent fields stay nil
func buildAppointmentUpdate(req *dto.UpdateAppointmentRequest) (entity.AppointmentUpdate, error) {
	var update entity.AppointmentUpdate

	date, err := optionalDate("appointment_date", stringValue(req.AppointmentDate))
	if err != nil {
		return update, err
	}
	update.AppointmentDate = date

	if req.StartTime != nil {
		start, err := entity.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return update, newFieldError("start_time", "start_time must use HH:MM")
		}
		update.StartTime = &start
	}
	if req.EndTime != nil {
		end, err := entity.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return update, newFieldError("end_time", "end_time must use HH:MM")
		}
		update.EndTime = &end
	}

	if req.AppointmentType != nil {
		appointmentType := entity.AppointmentType(*req.AppointmentType)
		if !appointmentType.IsValid() {
			return update, newFieldError("appointment_type", "appointment_type is invalid")
		}
		update.AppointmentType = &appointmentType
	}
	if req.Status != nil {
		status := entity.AppointmentStatus(*req.Status)
		if !status.IsValid() {
			return update, newFieldError("status", "status is invalid")
		}
		update.Status = &status
	}

	update.Reason = req.Reason
	update.Notes = req.Notes
	update.Diagnosis = req.Diagnosis

	return update, nil
}

func optionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := entity.ParseDate(value)
	if err != nil {
		return nil, newFieldError(field, err.Error())
	}
	return &date, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

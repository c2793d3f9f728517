package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type AvailableSlotsRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,date"` // Format: YYYY-MM-DD
	Duration int    `json:"duration" validate:"omitempty,min=5,max=480"`
}

type WeeklyScheduleRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	WeekStart string    `json:"week_start" validate:"omitempty,date"` // Format: YYYY-MM-DD
}

// Response DTOs

type TimeSlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailableSlotsResponse struct {
	DoctorID        uuid.UUID          `json:"doctor_id"`
	Date            string             `json:"date"`
	DurationMinutes int                `json:"duration_minutes"`
	WorkingHours    []TimeSlotResponse `json:"working_hours"`
	Slots           []TimeSlotResponse `json:"slots"`
}

type WeeklyScheduleResponse struct {
	DoctorID  uuid.UUID                       `json:"doctor_id"`
	WeekStart string                          `json:"week_start"`
	WeekEnd   string                          `json:"week_end"`
	Schedule  map[string][]AppointmentSummary `json:"schedule"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" validate:"required"`
	PatientID       uuid.UUID `json:"patient_id" validate:"required"`
	AppointmentDate string    `json:"appointment_date" validate:"required,date"` // Format: YYYY-MM-DD
	StartTime       string    `json:"start_time" validate:"required,clock"`      // Format: HH:MM
	EndTime         string    `json:"end_time" validate:"required,clock"`        // Format: HH:MM
	AppointmentType string    `json:"appointment_type" validate:"required,oneof=consultation follow_up emergency routine_checkup"`
	Reason          string    `json:"reason" validate:"omitempty,max=1000"`
	Notes           string    `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateAppointmentRequest is a partial update; omitted fields keep their value
type UpdateAppointmentRequest struct {
	AppointmentDate *string `json:"appointment_date" validate:"omitempty,date"`
	StartTime       *string `json:"start_time" validate:"omitempty,clock"`
	EndTime         *string `json:"end_time" validate:"omitempty,clock"`
	AppointmentType *string `json:"appointment_type" validate:"omitempty,oneof=consultation follow_up emergency routine_checkup"`
	Status          *string `json:"status" validate:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	Reason          *string `json:"reason" validate:"omitempty,max=1000"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
	Diagnosis       *string `json:"diagnosis" validate:"omitempty,max=2000"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

type ConfirmAppointmentRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" validate:"required,date"`
	StartTime       string `json:"start_time" validate:"required,clock"`
	EndTime         string `json:"end_time" validate:"required,clock"`
	Reason          string `json:"reason" validate:"omitempty,max=1000"`
}

// AppointmentListRequest carries list/search query parameters
type AppointmentListRequest struct {
	DoctorID  string `json:"doctor_id" validate:"omitempty,uuid"`
	PatientID string `json:"patient_id" validate:"omitempty,uuid"`
	Date      string `json:"date" validate:"omitempty,date"`
	DateFrom  string `json:"date_from" validate:"omitempty,date"`
	DateTo    string `json:"date_to" validate:"omitempty,date"`
	Status    string `json:"status" validate:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	Type      string `json:"type" validate:"omitempty,oneof=consultation follow_up emergency routine_checkup"`
	Search    string `json:"search" validate:"omitempty,max=200"`
	Page      int    `json:"page" validate:"omitempty,min=1"`
	Limit     int    `json:"limit" validate:"omitempty,min=1"`
}

type CalendarRequest struct {
	Date     string `json:"date" validate:"omitempty,date"`
	DoctorID string `json:"doctor_id" validate:"omitempty,uuid"`
	View     string `json:"view" validate:"omitempty,oneof=day week month"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	DoctorID        uuid.UUID       `json:"doctor_id"`
	AppointmentDate string          `json:"appointment_date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	AppointmentType string          `json:"appointment_type"`
	Status          string          `json:"status"`
	Reason          string          `json:"reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Diagnosis       string          `json:"diagnosis,omitempty"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	Doctor          *DoctorSummary  `json:"doctor,omitempty"`
	Patient         *PatientSummary `json:"patient,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AppointmentSummary is the compact form used by calendar views
type AppointmentSummary struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name,omitempty"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	AppointmentType string    `json:"appointment_type"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Page         int                   `json:"-"`
	Limit        int                   `json:"-"`
	Total        int64                 `json:"-"`
}

type CalendarResponse struct {
	View      string                          `json:"view"`
	StartDate string                          `json:"start_date"`
	EndDate   string                          `json:"end_date"`
	Total     int                             `json:"total"`
	Days      map[string][]AppointmentSummary `json:"days"`
}

// ConflictResponse lists the appointments that block a requested slot
type ConflictResponse struct {
	Conflicts []AppointmentSummary `json:"conflicts"`
}

type AppointmentStatsResponse struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"by_status"`
	ByType    map[string]int64 `json:"by_type"`
	Today     int64            `json:"today"`
	ThisWeek  int64            `json:"this_week"`
	ThisMonth int64            `json:"this_month"`
}

type DoctorAppointmentStatsResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	AppointmentStatsResponse
	UniquePatients int64           `json:"unique_patients"`
	CompletionRate decimal.Decimal `json:"completion_rate"`
}

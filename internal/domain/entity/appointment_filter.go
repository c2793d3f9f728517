package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for querying appointments.
// Nil fields are not applied; all applied fields are combined with AND.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Date      *time.Time
	DateFrom  *time.Time
	DateTo    *time.Time
	Status    *AppointmentStatus
	Type      *AppointmentType
	Search    *string

	// Statuses restricts the result to any of the listed statuses.
	// Used by read models such as the calendar; combined with Status when both are set.
	Statuses []AppointmentStatus
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

// AllAppointmentStatuses lists every status in lifecycle order
var AllAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

// ActiveAppointmentStatuses occupy the doctor's time and take part in conflict detection
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
}

// CalendarAppointmentStatuses are shown on calendar views
var CalendarAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
	AppointmentStatusCompleted,
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether the appointment still blocks the doctor's time
func (s AppointmentStatus) IsActive() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next follows the lifecycle:
//
//	scheduled -> confirmed -> in_progress -> completed
//
// with cancelled and no_show reachable from every non-terminal state.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled:
		switch next {
		case AppointmentStatusConfirmed, AppointmentStatusInProgress,
			AppointmentStatusCancelled, AppointmentStatusNoShow:
			return true
		}
	case AppointmentStatusConfirmed:
		switch next {
		case AppointmentStatusInProgress, AppointmentStatusCancelled, AppointmentStatusNoShow:
			return true
		}
	case AppointmentStatusInProgress:
		switch next {
		case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
			return true
		}
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return false
	}
	return false
}

// AppointmentType classifies the visit
type AppointmentType string

const (
	AppointmentTypeConsultation   AppointmentType = "consultation"
	AppointmentTypeFollowUp       AppointmentType = "follow_up"
	AppointmentTypeEmergency      AppointmentType = "emergency"
	AppointmentTypeRoutineCheckup AppointmentType = "routine_checkup"
)

var AllAppointmentTypes = []AppointmentType{
	AppointmentTypeConsultation,
	AppointmentTypeFollowUp,
	AppointmentTypeEmergency,
	AppointmentTypeRoutineCheckup,
}

func (t AppointmentType) IsValid() bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeFollowUp,
		AppointmentTypeEmergency, AppointmentTypeRoutineCheckup:
		return true
	}
	return false
}

// Appointment is a booked visit of a patient with a doctor.
// Appointments are never deleted; cancellation is a status change.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	StartTime       TimeOfDay         `gorm:"type:time;not null" json:"start_time"`
	EndTime         TimeOfDay         `gorm:"type:time;not null" json:"end_time"`
	AppointmentType AppointmentType   `gorm:"type:varchar(32);not null" json:"appointment_type"`
	Status          AppointmentStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Reason          string            `gorm:"type:text" json:"reason,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Diagnosis       string            `gorm:"type:text" json:"diagnosis,omitempty"`
	CreatedBy       *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
	Patient PatientProfile `gorm:"foreignKey:PatientID;references:UserID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Slot returns the appointment's time interval
func (a *Appointment) Slot() TimeSlot {
	return TimeSlot{Start: a.StartTime, End: a.EndTime}
}

func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// AppointmentUpdate is a partial update. Nil fields keep their stored value.
type AppointmentUpdate struct {
	AppointmentDate *time.Time
	StartTime       *TimeOfDay
	EndTime         *TimeOfDay
	AppointmentType *AppointmentType
	Status          *AppointmentStatus
	Reason          *string
	Notes           *string
	Diagnosis       *string
}

// TouchesSchedule reports whether the date or either bound of the interval changes
func (u *AppointmentUpdate) TouchesSchedule() bool {
	return u.AppointmentDate != nil || u.StartTime != nil || u.EndTime != nil
}

func (u *AppointmentUpdate) IsEmpty() bool {
	return len(u.Columns()) == 0
}

// Columns returns the column/value pairs to write
func (u *AppointmentUpdate) Columns() map[string]interface{} {
	columns := make(map[string]interface{})
	if u.AppointmentDate != nil {
		columns["appointment_date"] = *u.AppointmentDate
	}
	if u.StartTime != nil {
		columns["start_time"] = *u.StartTime
	}
	if u.EndTime != nil {
		columns["end_time"] = *u.EndTime
	}
	if u.AppointmentType != nil {
		columns["appointment_type"] = *u.AppointmentType
	}
	if u.Status != nil {
		columns["status"] = *u.Status
	}
	if u.Reason != nil {
		columns["reason"] = *u.Reason
	}
	if u.Notes != nil {
		columns["notes"] = *u.Notes
	}
	if u.Diagnosis != nil {
		columns["diagnosis"] = *u.Diagnosis
	}
	return columns
}

// Apply copies the set fields onto a
func (u *AppointmentUpdate) Apply(a *Appointment) {
	if u.AppointmentDate != nil {
		a.AppointmentDate = *u.AppointmentDate
	}
	if u.StartTime != nil {
		a.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		a.EndTime = *u.EndTime
	}
	if u.AppointmentType != nil {
		a.AppointmentType = *u.AppointmentType
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Reason != nil {
		a.Reason = *u.Reason
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
	if u.Diagnosis != nil {
		a.Diagnosis = *u.Diagnosis
	}
}

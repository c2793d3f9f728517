package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTimeSlot = errors.New("start time must be before end time")

// TimeSlot is a half-open interval [Start, End) within one day.
type TimeSlot struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

// NewTimeSlot validates that the interval is non-empty and inside one day.
// Zero-length slots are rejected here so the conflict checker never sees them.
func NewTimeSlot(start, end TimeOfDay) (TimeSlot, error) {
	if !start.IsValid() || !end.IsValid() || start >= end {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{Start: start, End: end}, nil
}

// Overlaps reports whether s and other share any instant.
// Slots that only touch at an endpoint (s.End == other.Start) do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && s.End > other.Start
}

// Contains reports whether other lies completely inside s
func (s TimeSlot) Contains(other TimeSlot) bool {
	return s.Start <= other.Start && other.End <= s.End
}

func (s TimeSlot) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Minute
}

// Split cuts s into consecutive slots of the given length.
// A trailing remainder shorter than length is dropped.
func (s TimeSlot) Split(length time.Duration) []TimeSlot {
	step := TimeOfDay(length / time.Minute)
	if step <= 0 {
		return nil
	}

	var slots []TimeSlot
	for cur := s.Start; cur+step <= s.End; cur += step {
		slots = append(slots, TimeSlot{Start: cur, End: cur + step})
	}
	return slots
}

// CheckConflicts compares a candidate slot with existing appointments of the same doctor
// and date. Appointments that are not active, or whose ID equals excludeID, are ignored.
// It returns whether any conflict exists together with the conflicting appointments.
func CheckConflicts(candidate TimeSlot, existing []Appointment, excludeID uuid.UUID) (bool, []Appointment) {
	var conflicts []Appointment

	for _, appointment := range existing {
		if excludeID != uuid.Nil && appointment.ID == excludeID {
			continue
		}
		if !appointment.Status.IsActive() {
			continue
		}
		if candidate.Overlaps(appointment.Slot()) {
			conflicts = append(conflicts, appointment)
		}
	}

	return len(conflicts) > 0, conflicts
}

func (s TimeSlot) String() string {
	return s.Start.String() + "-" + s.End.String()
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorSchedule is a recurring weekly working window of a doctor.
// DayOfWeek follows time.Weekday, Sunday is 0.
type DoctorSchedule struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DayOfWeek   int       `gorm:"not null;index" json:"day_of_week"`
	StartTime   TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime     TimeOfDay `gorm:"type:time;not null" json:"end_time"`
	IsAvailable *bool     `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}

func (s *DoctorSchedule) Slot() TimeSlot {
	return TimeSlot{Start: s.StartTime, End: s.EndTime}
}

func (s *DoctorSchedule) Available() bool {
	return s.IsAvailable == nil || *s.IsAvailable
}

// Covers reports whether the window is open and fully contains slot
func (s *DoctorSchedule) Covers(slot TimeSlot) bool {
	return s.Available() && s.Slot().Contains(slot)
}

package service

import (
	"context"
	"fmt"
	"time"

	"hospital-appointment-service/internal/domain/entity"
	"hospital-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DoctorOracle answers questions about doctors owned by the profile service
type DoctorOracle interface {
	Exists(ctx context.Context, doctorID uuid.UUID) (bool, error)
	IsAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time, slot entity.TimeSlot) (bool, error)
	WorkingHours(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.TimeSlot, error)
}

// PatientOracle answers questions about patients owned by the profile service
type PatientOracle interface {
	Exists(ctx context.Context, patientID uuid.UUID) (bool, error)
}

type doctorOracle struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorProfileRepository
	scheduleRepo repository.DoctorScheduleRepository
}

func NewDoctorOracle(db *gorm.DB, log *logrus.Logger, doctorRepo repository.DoctorProfileRepository, scheduleRepo repository.DoctorScheduleRepository) DoctorOracle {
	return &doctorOracle{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		scheduleRepo: scheduleRepo,
	}
}

// Exists reports whether the doctor has a profile and an active account
func (o *doctorOracle) Exists(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	ok, err := o.doctorRepo.ExistsActive(ctx, o.db, doctorID)
	if err != nil {
		o.log.Warnf("Failed to check doctor %s: %+v", doctorID, err)
		return false, fmt.Errorf("check doctor %s: %w", doctorID, err)
	}
	return ok, nil
}

// IsAvailable reports whether one open working window on the date's weekday fully contains slot
func (o *doctorOracle) IsAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time, slot entity.TimeSlot) (bool, error) {
	windows, err := o.WorkingHours(ctx, doctorID, date)
	if err != nil {
		return false, err
	}

	for _, window := range windows {
		if window.Contains(slot) {
			return true, nil
		}
	}
	return false, nil
}

// WorkingHours returns the doctor's open windows for the weekday of date, earliest first
func (o *doctorOracle) WorkingHours(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.TimeSlot, error) {
	schedules, err := o.scheduleRepo.FindByDoctorAndDay(ctx, o.db, doctorID, date.Weekday())
	if err != nil {
		o.log.Warnf("Failed to load schedule of doctor %s: %+v", doctorID, err)
		return nil, fmt.Errorf("load schedule of doctor %s: %w", doctorID, err)
	}

	windows := make([]entity.TimeSlot, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.Available() {
			windows = append(windows, schedule.Slot())
		}
	}
	return windows, nil
}

type patientOracle struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientProfileRepository
}

func NewPatientOracle(db *gorm.DB, log *logrus.Logger, patientRepo repository.PatientProfileRepository) PatientOracle {
	return &patientOracle{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
	}
}

func (o *patientOracle) Exists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	ok, err := o.patientRepo.Exists(ctx, o.db, patientID)
	if err != nil {
		o.log.Warnf("Failed to check patient %s: %+v", patientID, err)
		return false, fmt.Errorf("check patient %s: %w", patientID, err)
	}
	return ok, nil
}

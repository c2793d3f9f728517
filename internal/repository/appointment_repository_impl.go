package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"hospital-appointment-service/internal/domain/entity"
	domainRepo "hospital-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const appointmentOrder = "appointments.appointment_date ASC, appointments.start_time ASC, appointments.id ASC"

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Preload("Doctor.User").Preload("Patient.User").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindAll returns one page of appointments matching filter together with the total match count
func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter, limit, offset int) ([]entity.Appointment, int64, error) {
	var total int64
	err := applyAppointmentFilter(db.WithContext(ctx).Model(&entity.Appointment{}), filter).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var appointments []entity.Appointment
	if total == 0 {
		return appointments, 0, nil
	}

	err = applyAppointmentFilter(db.WithContext(ctx).Model(&entity.Appointment{}), filter).
		Preload("Doctor.User").Preload("Patient.User").
		Order(appointmentOrder).
		Limit(limit).Offset(offset).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

// FindAllByFilter returns every appointment matching filter, unpaged
func (r *appointmentRepository) FindAllByFilter(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := applyAppointmentFilter(db.WithContext(ctx).Model(&entity.Appointment{}), filter).
		Preload("Doctor.User").Preload("Patient.User").
		Order(appointmentOrder).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindActiveByDoctorAndDate returns the appointments that currently block the doctor's time on date.
// excludeID is skipped when it is not uuid.Nil.
func (r *appointmentRepository) FindActiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, entity.DateOf(date)).
		Where("status IN ?", entity.ActiveAppointmentStatuses)

	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	err := query.Order("start_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Update writes columns to the appointment only while its status is one of allowedFrom.
// Returns affected rows: 1 = success, 0 = missing or the status moved on in the meantime.
func (r *appointmentRepository) Update(ctx context.Context, db *gorm.DB, id uuid.UUID, columns map[string]interface{}, allowedFrom []entity.AppointmentStatus) (int64, error) {
	columns["updated_at"] = time.Now()

	query := db.WithContext(ctx).Model(&entity.Appointment{}).Where("id = ?", id)
	if len(allowedFrom) > 0 {
		query = query.Where("status IN ?", allowedFrom)
	}

	result := query.Updates(columns)
	return result.RowsAffected, result.Error
}

func applyAppointmentFilter(query *gorm.DB, filter *entity.AppointmentFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.DoctorID != nil {
		query = query.Where("appointments.doctor_id = ?", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		query = query.Where("appointments.patient_id = ?", *filter.PatientID)
	}
	if filter.Date != nil {
		query = query.Where("appointments.appointment_date = ?", entity.DateOf(*filter.Date))
	}
	if filter.DateFrom != nil {
		query = query.Where("appointments.appointment_date >= ?", entity.DateOf(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("appointments.appointment_date <= ?", entity.DateOf(*filter.DateTo))
	}
	if filter.Status != nil {
		query = query.Where("appointments.status = ?", *filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("appointments.status IN ?", filter.Statuses)
	}
	if filter.Type != nil {
		query = query.Where("appointments.appointment_type = ?", *filter.Type)
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(*filter.Search))) + "%"
		query = query.Where(`(LOWER(appointments.reason) LIKE ? ESCAPE '\' OR LOWER(appointments.notes) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	return query
}

// likeEscaper makes search text match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

package repository

import (
	"context"
	"time"

	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	Create(ctx context.Context, db *gorm.DB, schedule *entity.DoctorSchedule) error
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error)
	FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, day time.Weekday) ([]entity.DoctorSchedule, error)
}

package repository

import (
	"context"

	"hospital-appointment-service/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindByEntity(ctx context.Context, db *gorm.DB, entityType, entityID string) ([]entity.AuditLog, error)
}

package converter

import (
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// PatientProfileToSummary converts a preloaded PatientProfile to PatientSummary DTO.
// Returns nil when the profile was not loaded.
func PatientProfileToSummary(profile *entity.PatientProfile) *dto.PatientSummary {
	if profile == nil || profile.UserID == uuid.Nil {
		return nil
	}

	return &dto.PatientSummary{
		ID:            profile.UserID,
		FullName:      profile.User.FullName,
		MedicalNumber: profile.MedicalNumber,
		PhoneNumber:   profile.PhoneNumber,
	}
}

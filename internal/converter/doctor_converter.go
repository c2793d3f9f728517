package converter

import (
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorProfileToSummary converts a preloaded DoctorProfile to DoctorSummary DTO.
// Returns nil when the profile was not loaded.
func DoctorProfileToSummary(profile *entity.DoctorProfile) *dto.DoctorSummary {
	if profile == nil || profile.UserID == uuid.Nil {
		return nil
	}

	return &dto.DoctorSummary{
		ID:             profile.UserID,
		FullName:       profile.User.FullName,
		Specialization: profile.Specialization,
		Department:     profile.Department,
	}
}

// TimeSlotsToResponses converts time slots to TimeSlotResponse DTOs
func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.TimeSlotResponse{
			StartTime: slot.Start.String(),
			EndTime:   slot.End.String(),
		}
	}
	return responses
}

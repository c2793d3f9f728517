package converter

import (
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		DoctorID:        appointment.DoctorID,
		AppointmentDate: entity.FormatDate(appointment.AppointmentDate),
		StartTime:       appointment.StartTime.String(),
		EndTime:         appointment.EndTime.String(),
		AppointmentType: string(appointment.AppointmentType),
		Status:          string(appointment.Status),
		Reason:          appointment.Reason,
		Notes:           appointment.Notes,
		Diagnosis:       appointment.Diagnosis,
		CreatedBy:       appointment.CreatedBy,
		Doctor:          DoctorProfileToSummary(&appointment.Doctor),
		Patient:         PatientProfileToSummary(&appointment.Patient),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToSummary converts an Appointment entity to the compact calendar form
func AppointmentToSummary(appointment *entity.Appointment) dto.AppointmentSummary {
	return dto.AppointmentSummary{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		PatientName:     appointment.Patient.User.FullName,
		DoctorID:        appointment.DoctorID,
		DoctorName:      appointment.Doctor.User.FullName,
		StartTime:       appointment.StartTime.String(),
		EndTime:         appointment.EndTime.String(),
		AppointmentType: string(appointment.AppointmentType),
		Status:          string(appointment.Status),
		Reason:          appointment.Reason,
	}
}

// AppointmentsToSummaries converts a slice of Appointment entities to AppointmentSummary DTOs
func AppointmentsToSummaries(appointments []entity.Appointment) []dto.AppointmentSummary {
	summaries := make([]dto.AppointmentSummary, len(appointments))
	for i := range appointments {
		summaries[i] = AppointmentToSummary(&appointments[i])
	}
	return summaries
}

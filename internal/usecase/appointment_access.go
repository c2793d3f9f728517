package usecase

import (
	"context"

	"hospital-appointment-service/internal/delivery/http/middleware"
	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// patientScope returns the caller's user id when the caller is a patient.
// Patients only ever see and act on their own appointments.
func patientScope(ctx context.Context) (uuid.UUID, bool) {
	role, _ := middleware.GetRoleFromContext(ctx)
	if role != entity.RolePatient {
		return uuid.Nil, false
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)
	return userID, true
}

// findVisible loads an appointment the caller may see.
// Another patient's appointment is reported as not found.
func (u *appointmentUsecase) findVisible(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if patientID, scoped := patientScope(ctx); scoped && appointment.PatientID != patientID {
		u.log.Warnf("Patient %s denied access to appointment %s", patientID, id)
		return nil, &NotFoundError{Resource: "appointment", ID: id.String()}
	}
	return appointment, nil
}

func denyPatients(ctx context.Context, action string) error {
	if _, scoped := patientScope(ctx); scoped {
		return &ForbiddenError{Message: "patients cannot " + action + " appointments"}
	}
	return nil
}

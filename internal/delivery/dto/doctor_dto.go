package dto

import (
	"github.com/google/uuid"
)

// DoctorSummary is the denormalized doctor shown next to an appointment
type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
	Department     string    `json:"department,omitempty"`
}

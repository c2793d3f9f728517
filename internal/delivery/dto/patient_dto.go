package dto

import (
	"github.com/google/uuid"
)

// PatientSummary is the denormalized patient shown next to an appointment
type PatientSummary struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	MedicalNumber string    `json:"medical_number,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
}

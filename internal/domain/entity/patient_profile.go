package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile is the patient-specific part of a user account
type PatientProfile struct {
	UserID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	MedicalNumber string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"medical_number"`
	PhoneNumber   string     `gorm:"type:varchar(30);index" json:"phone_number,omitempty"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender        string     `gorm:"type:varchar(10)" json:"gender,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

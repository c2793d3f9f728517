// Package testutil holds helpers shared by package tests that need a database.
package testutil

import (
	"context"
	"testing"
	"time"

	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Minimal sqlite-friendly schema mirroring the postgres migrations.
var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE doctor_profiles (
		user_id TEXT PRIMARY KEY,
		license_number TEXT NOT NULL UNIQUE,
		specialization TEXT NOT NULL,
		department TEXT
	);`,
	`CREATE TABLE patient_profiles (
		user_id TEXT PRIMARY KEY,
		medical_number TEXT NOT NULL UNIQUE,
		phone_number TEXT,
		date_of_birth DATE,
		gender TEXT
	);`,
	`CREATE TABLE doctor_schedules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		doctor_id TEXT NOT NULL,
		day_of_week INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		is_available BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE appointments (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		doctor_id TEXT NOT NULL,
		appointment_date DATE NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		appointment_type TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		notes TEXT,
		diagnosis TEXT,
		created_by TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME
	);`,
}

// NewSQLiteDB opens an isolated in-memory database with the service schema.
// The pool is pinned to one connection so every query sees the same memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

// SeedDoctor inserts an active doctor working on the given weekdays between start and end
func SeedDoctor(t *testing.T, db *gorm.DB, name string, start, end string, days ...time.Weekday) uuid.UUID {
	t.Helper()

	id := uuid.New()
	active := true
	user := entity.User{ID: id, Role: entity.RoleDoctor, Email: id.String() + "@doctor.test", FullName: name, IsActive: &active}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed doctor user: %v", err)
	}

	profile := entity.DoctorProfile{UserID: id, LicenseNumber: "LIC-" + id.String()[:8], Specialization: "Cardiology"}
	if err := db.Omit("User", "Schedules").Create(&profile).Error; err != nil {
		t.Fatalf("seed doctor profile: %v", err)
	}

	for _, day := range days {
		schedule := entity.DoctorSchedule{
			DoctorID:    id,
			DayOfWeek:   int(day),
			StartTime:   entity.MustParseTimeOfDay(start),
			EndTime:     entity.MustParseTimeOfDay(end),
			IsAvailable: &active,
		}
		if err := db.Create(&schedule).Error; err != nil {
			t.Fatalf("seed doctor schedule: %v", err)
		}
	}

	return id
}

// SeedPatient inserts a patient profile with its user account
func SeedPatient(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	active := true
	user := entity.User{ID: id, Role: entity.RolePatient, Email: id.String() + "@patient.test", FullName: name, IsActive: &active}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed patient user: %v", err)
	}

	profile := entity.PatientProfile{UserID: id, MedicalNumber: "MRN-" + id.String()[:8], PhoneNumber: "+62811000000"}
	if err := db.Omit("User").Create(&profile).Error; err != nil {
		t.Fatalf("seed patient profile: %v", err)
	}

	return id
}

// SeedAppointment inserts an appointment directly, bypassing the booking rules
func SeedAppointment(t *testing.T, db *gorm.DB, doctorID, patientID uuid.UUID, date, start, end string, status entity.AppointmentStatus) entity.Appointment {
	t.Helper()

	day, err := entity.ParseDate(date)
	if err != nil {
		t.Fatalf("seed appointment date: %v", err)
	}

	appointment := entity.Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: day,
		StartTime:       entity.MustParseTimeOfDay(start),
		EndTime:         entity.MustParseTimeOfDay(end),
		AppointmentType: entity.AppointmentTypeConsultation,
		Status:          status,
	}
	if err := db.WithContext(context.Background()).Omit("Doctor", "Patient").Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return appointment
}

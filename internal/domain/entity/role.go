package entity

// Role names carried in access token claims
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RolePatient      = "patient"
	RoleReceptionist = "receptionist"
)

// StaffRoles may read schedule-wide statistics
var StaffRoles = []string{RoleAdmin, RoleDoctor}

// BookingRoles may book, cancel and reschedule appointments.
// Patients are limited to their own appointments.
var BookingRoles = []string{RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient}

// FrontDeskRoles may edit and confirm any appointment and follow every event topic
var FrontDeskRoles = []string{RoleAdmin, RoleDoctor, RoleReceptionist}

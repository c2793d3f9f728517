package usecase

import (
	"errors"
	"fmt"
	"strings"

	"hospital-appointment-service/internal/domain/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError reports malformed input or a failed business precondition
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}

// NotFoundError reports that a referenced appointment, doctor or patient does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ForbiddenError reports that the caller's role may not act on the appointment
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ConflictError reports that a requested slot overlaps active appointments of the doctor
type ConflictError struct {
	Message   string
	Conflicts []entity.Appointment
}

func (e *ConflictError) Error() string {
	return e.Message
}

// TransitionError reports a change the appointment lifecycle does not allow
type TransitionError struct {
	From   entity.AppointmentStatus
	To     entity.AppointmentStatus
	Action string
}

func (e *TransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("cannot %s an appointment with status %s", e.Action, e.From)
	}
	return fmt.Sprintf("cannot change appointment status from %s to %s", e.From, e.To)
}

// InternalError wraps a persistence or infrastructure failure
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func internalError(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}

// Name of the exclusion constraint that keeps active appointments of a doctor from overlapping
const appointmentOverlapConstraint = "appointments_no_overlap"

// isExclusionViolation checks if the error is a PostgreSQL exclusion_violation (23P01)
// raised by the specified constraint
func isExclusionViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23P01" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

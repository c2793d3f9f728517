package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hospital-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Appointment event types
const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentUpdated     = "appointment.updated"
	EventAppointmentCancelled   = "appointment.cancelled"
	EventAppointmentConfirmed   = "appointment.confirmed"
	EventAppointmentRescheduled = "appointment.rescheduled"
)

// TopicAppointments receives every appointment event
const TopicAppointments = "appointments"

func DoctorTopic(doctorID string) string { return "doctor:" + doctorID }
func PatientTopic(patientID string) string { return "patient:" + patientID }

// CanSubscribe reports whether a caller with role and userID may follow topic.
// Front desk roles follow every topic; a patient only follows their own patient topic.
func CanSubscribe(role string, userID uuid.UUID, topic string) bool {
	for _, allowed := range entity.FrontDeskRoles {
		if role == allowed {
			return true
		}
	}
	return role == entity.RolePatient && userID != uuid.Nil && topic == PatientTopic(userID.String())
}

// Event is the real-time notification delivered to subscribers
type Event struct {
	Type         string          `json:"type"`
	Topic        string          `json:"topic"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// Broadcaster delivers an encoded message to the subscribers of a topic
type Broadcaster interface {
	Broadcast(topic string, message []byte) int
}

// EventPublisher announces committed appointment changes
type EventPublisher interface {
	PublishAppointment(ctx context.Context, eventType string, appointment *entity.Appointment) error
}

type eventService struct {
	broadcaster Broadcaster
	log         *logrus.Logger
	now         func() time.Time
}

func NewEventService(broadcaster Broadcaster, log *logrus.Logger) EventPublisher {
	return &eventService{
		broadcaster: broadcaster,
		log:         log,
		now:         time.Now,
	}
}

type appointmentEventData struct {
	ID              string                   `json:"id"`
	DoctorID        string                   `json:"doctor_id"`
	PatientID       string                   `json:"patient_id"`
	AppointmentDate string                   `json:"appointment_date"`
	StartTime       entity.TimeOfDay         `json:"start_time"`
	EndTime         entity.TimeOfDay         `json:"end_time"`
	AppointmentType entity.AppointmentType   `json:"appointment_type"`
	Status          entity.AppointmentStatus `json:"status"`
}

// PublishAppointment fans the event out to the global, doctor and patient topics
func (s *eventService) PublishAppointment(ctx context.Context, eventType string, appointment *entity.Appointment) error {
	data, err := json.Marshal(appointmentEventData{
		ID:              appointment.ID.String(),
		DoctorID:        appointment.DoctorID.String(),
		PatientID:       appointment.PatientID.String(),
		AppointmentDate: entity.FormatDate(appointment.AppointmentDate),
		StartTime:       appointment.StartTime,
		EndTime:         appointment.EndTime,
		AppointmentType: appointment.AppointmentType,
		Status:          appointment.Status,
	})
	if err != nil {
		return fmt.Errorf("encode appointment event: %w", err)
	}

	topics := []string{
		TopicAppointments,
		DoctorTopic(appointment.DoctorID.String()),
		PatientTopic(appointment.PatientID.String()),
	}

	delivered := 0
	for _, topic := range topics {
		message, err := json.Marshal(Event{
			Type:         eventType,
			Topic:        topic,
			ResourceType: entity.AuditEntityAppointment,
			ResourceID:   appointment.ID.String(),
			Timestamp:    s.now().UTC(),
			Data:         data,
		})
		if err != nil {
			return fmt.Errorf("encode event for %s: %w", topic, err)
		}
		delivered += s.broadcaster.Broadcast(topic, message)
	}

	s.log.Debugf("Published %s for appointment %s to %d subscribers", eventType, appointment.ID, delivered)
	return nil
}

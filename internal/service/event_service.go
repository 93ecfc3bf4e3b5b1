package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event types published on the scheduling channel.
const (
	EventBookingCreated      = "booking_created"
	EventBookingCancelled    = "booking_cancelled"
	EventBookingRescheduled  = "booking_rescheduled"
	EventSlotPatternApplied  = "slot_pattern_applied"
	EventAppointmentReminder = "appointment_reminder"
)

// EventChannel is the Redis pub/sub channel scheduling events go out on.
// Notification workers (email, SMS) subscribe to it.
const EventChannel = "scheduler:events"

// SchedulingEvent is the wire format for scheduling notifications.
type SchedulingEvent struct {
	Type          string     `json:"type"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	PatientID     *uuid.UUID `json:"patient_id,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Date          string     `json:"date,omitempty"`       // YYYY-MM-DD
	StartTime     string     `json:"start_time,omitempty"` // HH:MM
	OccurredAt    time.Time  `json:"occurred_at"`
}

// EventService publishes scheduling events to Redis pub/sub. Publishing is
// fire-and-forget: a failed publish is logged, never propagated, so a Redis
// outage cannot fail a booking that already committed to the database.
type EventService struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewEventService(client *redis.Client, log *logrus.Logger) *EventService {
	return &EventService{
		client: client,
		log:    log,
	}
}

func (s *EventService) Publish(ctx context.Context, event SchedulingEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warnf("Failed to encode %s event: %+v", event.Type, err)
		return
	}

	if err := s.client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		s.log.Warnf("Failed to publish %s event: %+v", event.Type, err)
	}
}

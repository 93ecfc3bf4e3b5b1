package scheduling

import (
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/entity"
)

// transitions is the appointment lifecycle graph. Completed, cancelled,
// no_show, and rescheduled are terminal; a rescheduled appointment is
// superseded by a fresh scheduled one on a new slot.
var transitions = map[entity.AppointmentStatus][]entity.AppointmentStatus{
	entity.AppointmentStatusScheduled: {
		entity.AppointmentStatusConfirmed,
		entity.AppointmentStatusCancelled,
		entity.AppointmentStatusRescheduled,
	},
	entity.AppointmentStatusConfirmed: {
		entity.AppointmentStatusInProgress,
		entity.AppointmentStatusCancelled,
		entity.AppointmentStatusRescheduled,
		entity.AppointmentStatusNoShow,
	},
	entity.AppointmentStatusInProgress: {
		entity.AppointmentStatusCompleted,
		entity.AppointmentStatusCancelled,
	},
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to entity.AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates a status change, returning a ValidationError when
// the lifecycle graph forbids it.
func Transition(from, to entity.AppointmentStatus) error {
	if !to.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", to)}
	}
	if !CanTransition(from, to) {
		return &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("%s from %s to %s", ReasonInvalidTransition, from, to),
		}
	}
	return nil
}

// ReleaseStatus decides what a slot becomes when its appointment is
// cancelled or no-showed. Elapsed slots stay blocked so a past interval
// cannot be re-booked; future slots open up again.
func ReleaseStatus(date time.Time, start entity.LocalTime, now time.Time) entity.SlotStatus {
	slotStart := time.Date(
		date.Year(), date.Month(), date.Day(),
		start.Minutes()/60, start.Minutes()%60, 0, 0, now.Location(),
	)
	if slotStart.Before(now) {
		return entity.SlotStatusBlocked
	}
	return entity.SlotStatusAvailable
}

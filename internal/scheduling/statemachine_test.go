package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduler/internal/domain/entity"
)

func TestTransitionMatrix(t *testing.T) {
	allowed := map[entity.AppointmentStatus][]entity.AppointmentStatus{
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
	all := []entity.AppointmentStatus{
		entity.AppointmentStatusScheduled, entity.AppointmentStatusConfirmed,
		entity.AppointmentStatusInProgress, entity.AppointmentStatusCompleted,
		entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow,
		entity.AppointmentStatusRescheduled,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	terminals := []entity.AppointmentStatus{
		entity.AppointmentStatusCompleted, entity.AppointmentStatusCancelled,
		entity.AppointmentStatusNoShow, entity.AppointmentStatusRescheduled,
	}
	for _, from := range terminals {
		err := Transition(from, entity.AppointmentStatusScheduled)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "from %s", from)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	err := Transition(entity.AppointmentStatusScheduled, entity.AppointmentStatus("hibernating"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestReleaseStatusPastSlotStaysBlocked(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.SlotStatusBlocked, ReleaseStatus(yesterday, entity.MustLocalTime("10:00"), now))

	// earlier today, already elapsed
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.SlotStatusBlocked, ReleaseStatus(today, entity.MustLocalTime("09:00"), now))

	// later today reopens
	assert.Equal(t, entity.SlotStatusAvailable, ReleaseStatus(today, entity.MustLocalTime("16:00"), now))

	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.SlotStatusAvailable, ReleaseStatus(tomorrow, entity.MustLocalTime("08:00"), now))
}

package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduler/internal/domain/entity"
)

func availableTemplate() DayTemplate {
	return DayTemplate{
		IsAvailable: true,
		Window:      window("08:00", "17:00"),
		Breaks:      []TimeRange{window("12:00", "13:00")},
	}
}

func slot(start string, duration int, status entity.SlotStatus) entity.TimeSlot {
	st := entity.MustLocalTime(start)
	return entity.TimeSlot{
		ID:        uuid.New(),
		StartTime: st,
		EndTime:   st.AddMinutes(duration),
		Duration:  duration,
		Status:    status,
	}
}

func TestValidateBookingHappyPathReturnsMatchingSlot(t *testing.T) {
	existing := []entity.TimeSlot{
		slot("09:00", 30, entity.SlotStatusAvailable),
		slot("09:30", 30, entity.SlotStatusAvailable),
	}
	match, err := ValidateBooking(availableTemplate(), existing, entity.MustLocalTime("09:00"), 30, DefaultPolicy)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, existing[0].ID, match.ID)
}

func TestValidateBookingRejectsBookedOverlap(t *testing.T) {
	existing := []entity.TimeSlot{slot("10:00", 30, entity.SlotStatusBooked)}
	_, err := ValidateBooking(availableTemplate(), existing, entity.MustLocalTime("10:00"), 30, DefaultPolicy)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonSlotTaken, cerr.Reason)

	// partial overlap conflicts too
	_, err = ValidateBooking(availableTemplate(), existing, entity.MustLocalTime("09:45"), 30, DefaultPolicy)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonSlotTaken, cerr.Reason)
}

func TestValidateBookingRejectsBlockedOverlap(t *testing.T) {
	existing := []entity.TimeSlot{slot("14:00", 60, entity.SlotStatusBlocked)}
	_, err := ValidateBooking(availableTemplate(), existing, entity.MustLocalTime("14:30"), 30, DefaultPolicy)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonSlotTaken, cerr.Reason)
}

func TestValidateBookingRejectsBreakSlotOverlap(t *testing.T) {
	// A materialized break slot refuses bookings even when the day template
	// itself carries no break at that hour.
	existing := []entity.TimeSlot{slot("15:00", 30, entity.SlotStatusBreak)}
	_, err := ValidateBooking(availableTemplate(), existing, entity.MustLocalTime("15:00"), 30, DefaultPolicy)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonSlotTaken, cerr.Reason)
}

func TestValidateBookingOutsideWindow(t *testing.T) {
	cases := []struct {
		start    string
		duration int
	}{
		{"07:30", 30},  // before opening
		{"16:45", 30},  // runs past closing
		{"17:00", 30},  // at closing
		{"12:15", 30},  // inside the break
		{"11:45", 30},  // straddles the break start
		{"12:45", 30},  // straddles the break end
	}
	for _, tc := range cases {
		_, err := ValidateBooking(availableTemplate(), nil, entity.MustLocalTime(tc.start), tc.duration, DefaultPolicy)
		var cerr *ConflictError
		require.ErrorAs(t, err, &cerr, "start %s", tc.start)
		assert.Equal(t, ReasonOutsideWorkingHours, cerr.Reason, "start %s", tc.start)
	}
}

func TestValidateBookingUnavailableDay(t *testing.T) {
	tpl := DayTemplate{IsAvailable: false, Reason: UnavailableVacation}
	_, err := ValidateBooking(tpl, nil, entity.MustLocalTime("09:00"), 30, DefaultPolicy)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonExceptionBlocksDate, cerr.Reason)

	tpl = DayTemplate{IsAvailable: false, Reason: UnavailableNotWorking}
	_, err = ValidateBooking(tpl, nil, entity.MustLocalTime("09:00"), 30, DefaultPolicy)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonOutsideWorkingHours, cerr.Reason)
}

func TestValidateBookingDurationBounds(t *testing.T) {
	// Break-free template so over-limit durations reach the policy check
	// instead of colliding with the lunch break first.
	tpl := DayTemplate{IsAvailable: true, Window: window("08:00", "17:00")}

	for _, d := range []int{-30, 0, 10, 245} {
		_, err := ValidateBooking(tpl, nil, entity.MustLocalTime("09:00"), d, DefaultPolicy)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "duration %d", d)
		assert.Equal(t, ReasonInvalidDuration, verr.Reason)
	}
	// bounds are inclusive
	_, err := ValidateBooking(tpl, nil, entity.MustLocalTime("09:00"), 15, DefaultPolicy)
	assert.NoError(t, err)
	_, err = ValidateBooking(tpl, nil, entity.MustLocalTime("08:00"), 240, DefaultPolicy)
	assert.NoError(t, err)
}

func TestValidateBookingConflictChecksPrecedeDurationPolicy(t *testing.T) {
	// A 10-minute request on a booked interval reports the conflict, not
	// the policy violation. Conflict checks run before duration policy.
	existing := []entity.TimeSlot{slot("10:00", 30, entity.SlotStatusBooked)}
	_, err := ValidateBooking(availableTemplate(), existing, entity.MustLocalTime("10:00"), 10, DefaultPolicy)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonSlotTaken, cerr.Reason)
}

func TestValidateBookingNoMaterializedSlotIsStillValid(t *testing.T) {
	match, err := ValidateBooking(availableTemplate(), nil, entity.MustLocalTime("09:00"), 30, DefaultPolicy)
	require.NoError(t, err)
	assert.Nil(t, match)
}

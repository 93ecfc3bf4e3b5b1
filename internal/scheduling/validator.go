package scheduling

import "clinic-scheduler/internal/domain/entity"

// ValidateBooking checks a requested (start, duration) against the resolved
// day template and the materialized slots for that date. It returns the
// exact-matching available slot when one exists, or nil when the interval is
// valid but not yet materialized. It never mutates anything; the booking
// commit is a separate step.
//
// Checks run in order and short-circuit on the first failure:
//  1. the date is available and [start, start+duration) lies inside the
//     window and outside every break,
//  2. no booked, blocked, or break slot overlaps the interval,
//  3. the duration is within policy bounds.
//
// A non-positive duration is rejected up front so it reports as an invalid
// duration rather than falling out of the window check.
func ValidateBooking(tpl DayTemplate, existing []entity.TimeSlot, start entity.LocalTime, duration int, policy Policy) (*entity.TimeSlot, error) {
	if duration <= 0 {
		return nil, &ValidationError{Field: "duration", Reason: ReasonInvalidDuration}
	}
	if !tpl.IsAvailable {
		reason := ReasonOutsideWorkingHours
		if isExceptionReason(tpl.Reason) {
			reason = ReasonExceptionBlocksDate
		}
		return nil, &ConflictError{Reason: reason}
	}

	end := start.AddMinutes(duration)
	requested := TimeRange{Start: start, End: end}

	if !tpl.Window.Contains(start, end) {
		return nil, &ConflictError{Reason: ReasonOutsideWorkingHours}
	}
	for _, br := range tpl.Breaks {
		if requested.Overlaps(br) {
			return nil, &ConflictError{Reason: ReasonOutsideWorkingHours}
		}
	}

	var match *entity.TimeSlot
	for i := range existing {
		slot := &existing[i]
		if !slot.Overlaps(start, end) {
			continue
		}
		switch slot.Status {
		case entity.SlotStatusBooked, entity.SlotStatusBlocked, entity.SlotStatusBreak:
			return nil, &ConflictError{Reason: ReasonSlotTaken}
		case entity.SlotStatusAvailable:
			if slot.StartTime.Equal(start) && slot.Duration == duration {
				match = slot
			}
		}
	}

	if duration < policy.MinDuration || duration > policy.MaxDuration {
		return nil, &ValidationError{Field: "duration", Reason: ReasonInvalidDuration}
	}

	return match, nil
}

func isExceptionReason(reason string) bool {
	switch reason {
	case UnavailableUnavailable, UnavailableHoliday, UnavailableVacation:
		return true
	}
	return false
}

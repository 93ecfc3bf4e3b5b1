package scheduling

import "clinic-scheduler/internal/domain/entity"

// Unavailability reasons reported in a resolved DayTemplate.
const (
	UnavailableNotWorking  = "not_working"
	UnavailableNoSchedule  = "no_schedule"
	UnavailableUnavailable = "unavailable"
	UnavailableHoliday     = "holiday"
	UnavailableVacation    = "vacation"
)

// ResolveDay combines a doctor's base weekly schedule with the per-date
// exception, if any, into the authoritative template for that date.
//
// Precedence, highest first:
//  1. A blocking exception (vacation, holiday, unavailable) closes the day.
//  2. A custom_hours exception replaces the window and discards the base
//     schedule's breaks for that date.
//  3. The weekday's working hours, including its break window.
//  4. No schedule at all resolves to unavailable (fail closed).
//
// Availability patterns are never read here; applying a pattern writes
// materialized slots through the bulk edit engine instead.
func ResolveDay(hours *entity.WorkingHours, exc *entity.ScheduleException) DayTemplate {
	if exc != nil {
		switch {
		case exc.Type.BlocksDay():
			return DayTemplate{IsAvailable: false, Reason: string(exc.Type)}
		case exc.Type == entity.ExceptionCustomHours && exc.StartTime != nil && exc.EndTime != nil:
			return DayTemplate{
				IsAvailable: true,
				Window:      TimeRange{Start: *exc.StartTime, End: *exc.EndTime},
			}
		}
	}

	if hours == nil {
		return DayTemplate{IsAvailable: false, Reason: UnavailableNoSchedule}
	}
	if !hours.IsWorking {
		return DayTemplate{IsAvailable: false, Reason: UnavailableNotWorking}
	}

	tpl := DayTemplate{
		IsAvailable: true,
		Window:      TimeRange{Start: hours.StartTime, End: hours.EndTime},
	}
	if hours.HasBreak() {
		tpl.Breaks = []TimeRange{{Start: *hours.BreakStart, End: *hours.BreakEnd}}
	}
	return tpl
}

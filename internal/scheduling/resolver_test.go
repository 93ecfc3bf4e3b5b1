package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clinic-scheduler/internal/domain/entity"
)

func ptrTime(s string) *entity.LocalTime {
	t := entity.MustLocalTime(s)
	return &t
}

func baseHours() *entity.WorkingHours {
	return &entity.WorkingHours{
		DayOfWeek:  entity.Monday,
		StartTime:  entity.MustLocalTime("08:00"),
		EndTime:    entity.MustLocalTime("17:00"),
		BreakStart: ptrTime("12:00"),
		BreakEnd:   ptrTime("13:00"),
		IsWorking:  true,
	}
}

func TestResolveDayWorkingHoursWithBreak(t *testing.T) {
	tpl := ResolveDay(baseHours(), nil)
	assert.True(t, tpl.IsAvailable)
	assert.Equal(t, "08:00", tpl.Window.Start.String())
	assert.Equal(t, "17:00", tpl.Window.End.String())
	assert.Len(t, tpl.Breaks, 1)
	assert.Equal(t, "12:00", tpl.Breaks[0].Start.String())
}

func TestResolveDayVacationOverridesWorkingHours(t *testing.T) {
	exc := &entity.ScheduleException{Type: entity.ExceptionVacation}
	tpl := ResolveDay(baseHours(), exc)
	assert.False(t, tpl.IsAvailable)
	assert.Equal(t, "vacation", tpl.Reason)
}

func TestResolveDayHolidayAndUnavailableBlock(t *testing.T) {
	for _, typ := range []entity.ExceptionType{entity.ExceptionHoliday, entity.ExceptionUnavailable} {
		tpl := ResolveDay(baseHours(), &entity.ScheduleException{Type: typ})
		assert.False(t, tpl.IsAvailable, "type %s", typ)
	}
}

func TestResolveDayCustomHoursReplaceWindowAndDropBreaks(t *testing.T) {
	exc := &entity.ScheduleException{
		Type:      entity.ExceptionCustomHours,
		StartTime: ptrTime("10:00"),
		EndTime:   ptrTime("14:00"),
	}
	tpl := ResolveDay(baseHours(), exc)
	assert.True(t, tpl.IsAvailable)
	assert.Equal(t, "10:00", tpl.Window.Start.String())
	assert.Equal(t, "14:00", tpl.Window.End.String())
	assert.Empty(t, tpl.Breaks, "base schedule breaks must not leak into a custom-hours day")
}

func TestResolveDayCustomHoursWithoutWindowFallsThrough(t *testing.T) {
	// A custom_hours exception missing its window cannot override anything.
	exc := &entity.ScheduleException{Type: entity.ExceptionCustomHours}
	tpl := ResolveDay(baseHours(), exc)
	assert.True(t, tpl.IsAvailable)
	assert.Equal(t, "08:00", tpl.Window.Start.String())
}

func TestResolveDayNonWorkingDay(t *testing.T) {
	hours := baseHours()
	hours.IsWorking = false
	tpl := ResolveDay(hours, nil)
	assert.False(t, tpl.IsAvailable)
	assert.Equal(t, UnavailableNotWorking, tpl.Reason)
}

func TestResolveDayFailsClosedWithoutSchedule(t *testing.T) {
	tpl := ResolveDay(nil, nil)
	assert.False(t, tpl.IsAvailable)
	assert.Equal(t, UnavailableNoSchedule, tpl.Reason)
}

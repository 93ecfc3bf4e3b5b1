package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduler/internal/domain/entity"
)

func window(start, end string) TimeRange {
	return TimeRange{Start: entity.MustLocalTime(start), End: entity.MustLocalTime(end)}
}

func TestGenerateFullDayWithLunchBreak(t *testing.T) {
	slots, err := Generate(window("08:00", "18:00"), 30, 0, []TimeRange{window("12:00", "13:00")})
	require.NoError(t, err)
	require.Len(t, slots, 18)

	// 08:00..11:30 then 13:00..17:30, nothing inside the break
	assert.Equal(t, "08:00", slots[0].StartTime.String())
	assert.Equal(t, "11:30", slots[7].StartTime.String())
	assert.Equal(t, "13:00", slots[8].StartTime.String())
	assert.Equal(t, "17:30", slots[17].StartTime.String())
	for _, s := range slots {
		assert.False(t, TimeRange{Start: s.StartTime, End: s.EndTime}.Overlaps(window("12:00", "13:00")),
			"slot %s overlaps the break", s.StartTime)
	}
}

func TestGeneratePartialBreakOverlapDropsWholeSlot(t *testing.T) {
	// 45-minute slots against a 12:30-13:00 break: the 12:00-12:45 candidate
	// only partially overlaps but must be dropped entirely.
	slots, err := Generate(window("09:00", "14:00"), 45, 0, []TimeRange{window("12:30", "13:00")})
	require.NoError(t, err)
	for _, s := range slots {
		assert.False(t, s.StartTime.Equal(entity.MustLocalTime("12:00")))
	}
}

func TestGenerateDropsTrailingShortSlot(t *testing.T) {
	slots, err := Generate(window("08:00", "09:50"), 30, 0, nil)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[2].StartTime.String())
	assert.Equal(t, "09:30", slots[2].EndTime.String())
}

func TestGenerateWithInterval(t *testing.T) {
	slots, err := Generate(window("09:00", "11:00"), 30, 15, nil)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "09:45", slots[1].StartTime.String())
	assert.Equal(t, "10:30", slots[2].StartTime.String())
}

func TestGenerateInvalidDuration(t *testing.T) {
	for _, d := range []int{0, -30} {
		_, err := Generate(window("08:00", "18:00"), d, 0, nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ReasonInvalidDuration, verr.Reason)
	}
}

func TestGenerateNegativeInterval(t *testing.T) {
	_, err := Generate(window("08:00", "18:00"), 30, -5, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGenerateInvertedWindowIsEmptyNotError(t *testing.T) {
	slots, err := Generate(window("18:00", "08:00"), 30, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = Generate(window("09:00", "09:00"), 30, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateIgnoresBreakOutsideWindow(t *testing.T) {
	withBreak, err := Generate(window("08:00", "12:00"), 30, 0, []TimeRange{window("14:00", "15:00")})
	require.NoError(t, err)
	without, err := Generate(window("08:00", "12:00"), 30, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, without, withBreak)
}

func TestGenerateDeterministicAndOrdered(t *testing.T) {
	first, err := Generate(window("08:00", "18:00"), 20, 10, []TimeRange{window("12:00", "12:30")})
	require.NoError(t, err)
	second, err := Generate(window("08:00", "18:00"), 20, 10, []TimeRange{window("12:00", "12:30")})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].StartTime.Before(first[i].StartTime))
	}
}

func TestGenerateNoOverlapInvariant(t *testing.T) {
	slots, err := Generate(window("08:00", "18:00"), 25, 5, []TimeRange{window("11:00", "11:45")})
	require.NoError(t, err)
	for i := range slots {
		for j := range slots {
			if i == j {
				continue
			}
			a, b := slots[i], slots[j]
			disjoint := !a.EndTime.After(b.StartTime) || !b.EndTime.After(a.StartTime)
			assert.True(t, disjoint, "slots %s and %s overlap", a.StartTime, b.StartTime)
		}
	}
}

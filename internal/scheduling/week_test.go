package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextWeekKeepsWeekday(t *testing.T) {
	d := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC) // Friday crossing into March
	next := NextWeek(d)
	assert.Equal(t, d.Weekday(), next.Weekday())
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), next)

	// year boundary
	d = time.Date(2026, 12, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC), NextWeek(d))
}

func TestDatesInRangeInclusive(t *testing.T) {
	start := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	dates := DatesInRange(start, end)
	require.Len(t, dates, 4)
	assert.Equal(t, start, dates[0])
	assert.Equal(t, end, dates[3])
}

func TestDatesInRangeSingleDayAndInverted(t *testing.T) {
	d := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Len(t, DatesInRange(d, d), 1)
	assert.Nil(t, DatesInRange(d.AddDate(0, 0, 1), d))
}

func TestDatesInRangeNormalizesTimestamps(t *testing.T) {
	start := time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, 5, 2, 0, 1, 0, 0, time.UTC)
	dates := DatesInRange(start, end)
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), dates[0])
}

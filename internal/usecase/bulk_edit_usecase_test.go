package usecase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduler/internal/domain/entity"
)

func sourceSlot(start string, duration int, status entity.SlotStatus) entity.TimeSlot {
	st := entity.MustLocalTime(start)
	return entity.TimeSlot{
		ID:        uuid.New(),
		StartTime: st,
		EndTime:   st.AddMinutes(duration),
		Duration:  duration,
		Status:    status,
	}
}

func TestWeekCopyTemplatePreservesStatusAndDropsBooked(t *testing.T) {
	source := []entity.TimeSlot{
		sourceSlot("09:00", 30, entity.SlotStatusAvailable),
		sourceSlot("09:30", 30, entity.SlotStatusBooked),
		sourceSlot("10:00", 30, entity.SlotStatusBlocked),
		sourceSlot("12:00", 60, entity.SlotStatusBreak),
	}

	template := weekCopyTemplate(source)
	require.Len(t, template, 3)

	byStart := map[string]entity.SlotStatus{}
	for _, tpl := range template {
		byStart[tpl.StartTime.String()] = tpl.MaterializedStatus()
	}
	assert.Equal(t, entity.SlotStatusAvailable, byStart["09:00"])
	assert.Equal(t, entity.SlotStatusBlocked, byStart["10:00"])
	assert.Equal(t, entity.SlotStatusBreak, byStart["12:00"])

	// the booked interval is absent so the target week starts open there
	_, copied := byStart["09:30"]
	assert.False(t, copied)
}

func TestWeekCopyTemplateEmptySourceDay(t *testing.T) {
	assert.Empty(t, weekCopyTemplate(nil))
}

package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduler/internal/domain/entity"
)

func tpl(start string, duration int) entity.SlotTemplate {
	st := entity.MustLocalTime(start)
	return entity.SlotTemplate{StartTime: st, EndTime: st.AddMinutes(duration), Duration: duration}
}

func TestPlanMergeEmptyDayInsertsWholeTemplate(t *testing.T) {
	plan := PlanMerge(nil, []entity.SlotTemplate{tpl("09:00", 30), tpl("09:30", 30)})
	assert.Len(t, plan.Insert, 2)
	assert.Empty(t, plan.Delete)
	assert.Empty(t, plan.Skipped)
}

func TestPlanMergePreservesBookedSlots(t *testing.T) {
	booked := slot("09:00", 30, entity.SlotStatusBooked)
	stale := slot("10:00", 30, entity.SlotStatusAvailable)
	template := []entity.SlotTemplate{tpl("09:00", 30), tpl("11:00", 30)}

	plan := PlanMerge([]entity.TimeSlot{booked, stale}, template)

	// booked slot survives; the colliding template entry is skipped
	assert.Contains(t, plan.Keep, booked.ID)
	assert.NotContains(t, plan.Delete, booked.ID)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "09:00", plan.Skipped[0].StartTime.String())

	// stale non-booked slot absent from the template goes away
	assert.Contains(t, plan.Delete, stale.ID)

	require.Len(t, plan.Insert, 1)
	assert.Equal(t, "11:00", plan.Insert[0].StartTime.String())
}

func TestPlanMergeIdempotentReapplication(t *testing.T) {
	template := []entity.SlotTemplate{tpl("09:00", 30), tpl("09:30", 30), tpl("10:00", 30)}

	// first application materializes everything
	first := PlanMerge(nil, template)
	require.Len(t, first.Insert, 3)

	existing := make([]entity.TimeSlot, 0, 3)
	for _, ins := range first.Insert {
		existing = append(existing, slot(ins.StartTime.String(), ins.Duration, entity.SlotStatusAvailable))
	}
	// one slot gets booked in between
	existing[1].Status = entity.SlotStatusBooked

	second := PlanMerge(existing, template)
	assert.Empty(t, second.Insert)
	assert.Empty(t, second.Delete)
	assert.Contains(t, second.Keep, existing[1].ID)
}

func TestPlanMergeStatusChangeReplacesSlot(t *testing.T) {
	// The same interval with a different template status is a replace, not
	// a keep: the blocked template must not leave the slot bookable.
	open := slot("09:00", 30, entity.SlotStatusAvailable)
	blocked := tpl("09:00", 30)
	blocked.Status = entity.SlotStatusBlocked

	plan := PlanMerge([]entity.TimeSlot{open}, []entity.SlotTemplate{blocked})
	assert.Contains(t, plan.Delete, open.ID)
	require.Len(t, plan.Insert, 1)
	assert.Equal(t, entity.SlotStatusBlocked, plan.Insert[0].Status)

	// identical status is still a keep
	same := tpl("09:00", 30)
	plan = PlanMerge([]entity.TimeSlot{open}, []entity.SlotTemplate{same})
	assert.Empty(t, plan.Insert)
	assert.Empty(t, plan.Delete)
	assert.Contains(t, plan.Keep, open.ID)
}

func TestPlanMergeBookedSlotOverlappingDifferentGrid(t *testing.T) {
	// A 45-minute booking straddles two 30-minute template entries; both
	// must be skipped rather than inserted on top of it.
	booked := slot("09:15", 45, entity.SlotStatusBooked)
	template := []entity.SlotTemplate{tpl("09:00", 30), tpl("09:30", 30), tpl("10:00", 30)}

	plan := PlanMerge([]entity.TimeSlot{booked}, template)
	assert.Len(t, plan.Skipped, 2)
	require.Len(t, plan.Insert, 1)
	assert.Equal(t, "10:00", plan.Insert[0].StartTime.String())
	assert.Contains(t, plan.Keep, booked.ID)
}

package scheduling

import (
	"github.com/google/uuid"

	"clinic-scheduler/internal/domain/entity"
)

// MergePlan describes how to reconcile a day's materialized slots with a
// target template. Booked slots always survive: they are never deleted,
// never overwritten, and template entries colliding with them are skipped.
type MergePlan struct {
	Insert  []entity.SlotTemplate // template slots to materialize
	Delete  []uuid.UUID           // existing non-booked slots absent from the template
	Keep    []uuid.UUID           // existing slots left untouched
	Skipped []entity.SlotTemplate // template slots dropped because a booked slot overlaps
}

// PlanMerge computes the reconciliation between existing slots and the
// target template for one date. An existing slot matches a template entry
// only when start, duration, and materialized status all agree; a status
// change is a delete plus insert. Applying an identical template twice
// yields an empty Insert/Delete set the second time, so pattern application
// is idempotent with respect to bookings.
func PlanMerge(existing []entity.TimeSlot, template []entity.SlotTemplate) MergePlan {
	plan := MergePlan{}

	matched := make(map[uuid.UUID]bool, len(existing))
	for _, tpl := range template {
		var exact *entity.TimeSlot
		bookedCollision := false
		for i := range existing {
			slot := &existing[i]
			if slot.IsBooked() && slot.Overlaps(tpl.StartTime, tpl.EndTime) {
				bookedCollision = true
				break
			}
			if !slot.IsBooked() && slot.StartTime.Equal(tpl.StartTime) &&
				slot.Duration == tpl.Duration && slot.Status == tpl.MaterializedStatus() {
				exact = slot
			}
		}
		switch {
		case bookedCollision:
			plan.Skipped = append(plan.Skipped, tpl)
		case exact != nil:
			matched[exact.ID] = true
			plan.Keep = append(plan.Keep, exact.ID)
		default:
			plan.Insert = append(plan.Insert, tpl)
		}
	}

	for i := range existing {
		slot := &existing[i]
		if slot.IsBooked() {
			plan.Keep = append(plan.Keep, slot.ID)
			continue
		}
		if !matched[slot.ID] {
			plan.Delete = append(plan.Delete, slot.ID)
		}
	}

	return plan
}

package scheduling

import "clinic-scheduler/internal/domain/entity"

// Generate walks a window in steps of duration+interval and returns the
// ordered candidate slots for one date. A candidate [t, t+duration) is kept
// only when it fits entirely inside the window and does not intersect any
// break; partial overlap with a break drops the whole candidate. Trailing
// time too short for a full duration is dropped.
//
// Pure and deterministic: same inputs always yield the same ordered list.
func Generate(window TimeRange, duration, interval int, breaks []TimeRange) ([]entity.SlotTemplate, error) {
	if duration <= 0 {
		return nil, &ValidationError{Field: "duration", Reason: ReasonInvalidDuration}
	}
	if interval < 0 {
		return nil, &ValidationError{Field: "interval", Reason: "interval must not be negative"}
	}

	slots := []entity.SlotTemplate{}
	if window.IsEmpty() {
		return slots, nil
	}

	step := duration + interval
	for m := window.Start.Minutes(); m+duration <= window.End.Minutes(); m += step {
		start, err := entity.LocalTimeFromMinutes(m)
		if err != nil {
			break
		}
		end := start.AddMinutes(duration)

		candidate := TimeRange{Start: start, End: end}
		blocked := false
		for _, br := range breaks {
			if candidate.Overlaps(br) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		slots = append(slots, entity.SlotTemplate{
			StartTime: start,
			EndTime:   end,
			Duration:  duration,
		})
	}

	return slots, nil
}

package scheduling

import "clinic-scheduler/internal/domain/entity"

// TimeRange is a half-open wall-clock interval [Start, End).
type TimeRange struct {
	Start entity.LocalTime `json:"start"`
	End   entity.LocalTime `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether [start, end) lies fully inside r.
func (r TimeRange) Contains(start, end entity.LocalTime) bool {
	return !start.Before(r.Start) && !end.After(r.End)
}

// IsEmpty reports whether the range covers no time.
func (r TimeRange) IsEmpty() bool {
	return !r.Start.Before(r.End)
}

// DayTemplate is the resolved availability for one doctor on one date:
// the authoritative window and breaks that slot materialization and
// booking validation run against.
type DayTemplate struct {
	IsAvailable bool        `json:"is_available"`
	Window      TimeRange   `json:"window,omitempty"`
	Breaks      []TimeRange `json:"breaks,omitempty"`
	Reason      string      `json:"reason,omitempty"` // set when unavailable
}

// Policy carries booking policy bounds, loaded from configuration.
type Policy struct {
	MinDuration int // minutes
	MaxDuration int // minutes
}

// DefaultPolicy is the clinic-wide booking policy.
var DefaultPolicy = Policy{MinDuration: 15, MaxDuration: 240}

package scheduling

import "fmt"

// Conflict reasons surfaced to callers so they can pick another slot.
const (
	ReasonOutsideWorkingHours = "outside_working_hours"
	ReasonSlotTaken           = "slot_taken"
	ReasonExceptionBlocksDate = "exception_blocks_date"
)

// Validation reasons for malformed input.
const (
	ReasonInvalidDuration   = "invalid_duration"
	ReasonInvalidTransition = "invalid_transition"
)

// ValidationError marks malformed input: bad duration, malformed time
// string, invalid state transition. Always caller-fixable, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ConflictError marks an expected scheduling conflict. Not a bug; the
// caller chooses another slot.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: %s", e.Reason)
}

// NotFoundError marks an unknown doctor, pattern, slot, exception, or
// appointment.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConcurrencyError marks a lost optimistic race on booking commit. Callers
// re-fetch availability and retry once before surfacing it.
type ConcurrencyError struct {
	Op string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrent modification during %s", e.Op)
}

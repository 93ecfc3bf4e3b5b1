package dto

// Request DTOs

type ApplyPatternRequest struct {
	StartDate string `json:"start_date" validate:"required,dateonly"`
	EndDate   string `json:"end_date" validate:"required,dateonly"`
}

type CopyWeekRequest struct {
	SourceWeekStart string `json:"source_week_start" validate:"required,dateonly"` // any date inside the source week
	TargetWeekStart string `json:"target_week_start" validate:"omitempty,dateonly"` // defaults to the week after the source
}

type BulkAvailabilityRequest struct {
	Dates     []string `json:"dates" validate:"required,min=1,max=92,dive,dateonly"`
	Available bool     `json:"available"`
}

// Response DTOs

// BulkDateResult reports what happened on a single date of a bulk edit.
// Dates holding booked slots that collide with the requested change are
// partially applied: the booked slots stay and are counted in Skipped.
type BulkDateResult struct {
	Date     string `json:"date"`
	Status   string `json:"status"` // applied, partial, skipped, failed
	Inserted int    `json:"inserted"`
	Deleted  int    `json:"deleted"`
	Kept     int    `json:"kept"`
	Skipped  int    `json:"skipped"`
	Reason   string `json:"reason,omitempty"`
}

type BulkEditResponse struct {
	Results []BulkDateResult `json:"results"`
	Total   int              `json:"total"`
}

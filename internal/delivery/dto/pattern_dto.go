package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SlotTemplateRequest struct {
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Duration  int    `json:"duration" validate:"required,min=1"` // minutes
}

type DayPatternRequest struct {
	DayOfWeek   int                   `json:"day_of_week" validate:"min=0,max=6"`
	IsAvailable bool                  `json:"is_available"`
	TimeSlots   []SlotTemplateRequest `json:"time_slots" validate:"dive"`
}

type CreatePatternRequest struct {
	Name          string              `json:"name" validate:"required,max=100"`
	Description   string              `json:"description" validate:"max=500"`
	WeeklyPattern []DayPatternRequest `json:"weekly_pattern" validate:"required,min=1,max=7,dive"`
}

type UpdatePatternRequest struct {
	Name          string              `json:"name" validate:"omitempty,max=100"`
	Description   string              `json:"description" validate:"omitempty,max=500"`
	WeeklyPattern []DayPatternRequest `json:"weekly_pattern" validate:"omitempty,min=1,max=7,dive"`
}

// Response DTOs

type SlotTemplateResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
}

type DayPatternResponse struct {
	DayOfWeek   int                    `json:"day_of_week"`
	IsAvailable bool                   `json:"is_available"`
	TimeSlots   []SlotTemplateResponse `json:"time_slots,omitempty"`
}

type PatternResponse struct {
	ID            int                  `json:"id"`
	DoctorID      uuid.UUID            `json:"doctor_id"`
	Name          string               `json:"name"`
	Description   string               `json:"description,omitempty"`
	WeeklyPattern []DayPatternResponse `json:"weekly_pattern"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type PatternListResponse struct {
	Patterns []PatternResponse `json:"patterns"`
	Total    int               `json:"total"`
}

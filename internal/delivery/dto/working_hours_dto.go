package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type WorkingHoursDayRequest struct {
	DayOfWeek  int     `json:"day_of_week" validate:"min=0,max=6"`
	IsWorking  bool    `json:"is_working"`
	StartTime  string  `json:"start_time" validate:"required_if=IsWorking true,omitempty,hhmm"` // Format: HH:MM
	EndTime    string  `json:"end_time" validate:"required_if=IsWorking true,omitempty,hhmm"`   // Format: HH:MM
	BreakStart *string `json:"break_start" validate:"omitempty,hhmm"`
	BreakEnd   *string `json:"break_end" validate:"omitempty,hhmm"`
}

type SetWorkingHoursRequest struct {
	Days []WorkingHoursDayRequest `json:"days" validate:"required,min=1,max=7,dive"`
}

// Response DTOs

type WorkingHoursResponse struct {
	DoctorID   uuid.UUID `json:"doctor_id"`
	DayOfWeek  int       `json:"day_of_week"`
	IsWorking  bool      `json:"is_working"`
	StartTime  string    `json:"start_time,omitempty"`
	EndTime    string    `json:"end_time,omitempty"`
	BreakStart *string   `json:"break_start,omitempty"`
	BreakEnd   *string   `json:"break_end,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type WorkingHoursListResponse struct {
	DoctorID uuid.UUID              `json:"doctor_id"`
	Days     []WorkingHoursResponse `json:"days"`
}

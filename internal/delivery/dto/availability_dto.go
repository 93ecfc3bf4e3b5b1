package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type MaterializeSlotsRequest struct {
	Date     string `json:"date" validate:"required,dateonly"`
	Duration int    `json:"duration" validate:"omitempty,min=1"` // minutes, defaults to clinic policy
	Interval int    `json:"interval" validate:"omitempty,min=0"` // minutes between starts, 0 = back to back
}

type UpdateSlotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available blocked"`
}

// Response DTOs

type SlotResponse struct {
	ID            uuid.UUID  `json:"id,omitzero"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	Duration      int        `json:"duration"`
	Status        string     `json:"status"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}

type DayAvailabilityResponse struct {
	DoctorID    uuid.UUID      `json:"doctor_id"`
	Date        string         `json:"date"`
	IsAvailable bool           `json:"is_available"`
	Reason      string         `json:"reason,omitempty"`
	WindowStart string         `json:"window_start,omitempty"`
	WindowEnd   string         `json:"window_end,omitempty"`
	Slots       []SlotResponse `json:"slots"`
}

type RangeAvailabilityResponse struct {
	DoctorID uuid.UUID                 `json:"doctor_id"`
	Days     []DayAvailabilityResponse `json:"days"`
}

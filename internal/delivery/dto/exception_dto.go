package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateExceptionRequest struct {
	Date      string  `json:"date" validate:"required,dateonly"` // Format: YYYY-MM-DD
	Type      string  `json:"type" validate:"required,oneof=unavailable custom_hours holiday vacation"`
	StartTime *string `json:"start_time" validate:"omitempty,hhmm"` // required for custom_hours
	EndTime   *string `json:"end_time" validate:"omitempty,hhmm"`
	Reason    string  `json:"reason" validate:"max=255"`
}

// Response DTOs

type ExceptionResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	StartTime *string   `json:"start_time,omitempty"`
	EndTime   *string   `json:"end_time,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ExceptionListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
	Total      int                 `json:"total"`
}

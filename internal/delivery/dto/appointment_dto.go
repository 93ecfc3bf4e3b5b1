package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	Date      string    `json:"date" validate:"required,dateonly"`
	StartTime string    `json:"start_time" validate:"required,hhmm"`
	Duration  int       `json:"duration" validate:"required,min=1"` // minutes
	Notes     string    `json:"notes" validate:"max=1000"`
}

type RescheduleAppointmentRequest struct {
	Date      string `json:"date" validate:"required,dateonly"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	Duration  *int   `json:"duration" validate:"omitempty,min=1"` // defaults to the current duration
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in_progress completed cancelled no_show"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        uuid.UUID       `json:"id"`
	PatientID uuid.UUID       `json:"patient_id"`
	DoctorID  uuid.UUID       `json:"doctor_id"`
	Doctor    *DoctorResponse `json:"doctor,omitempty"`
	Date      string          `json:"date"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Duration  int             `json:"duration"`
	Status    string          `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

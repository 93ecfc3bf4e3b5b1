package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusInProgress  AppointmentStatus = "in_progress"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusNoShow      AppointmentStatus = "no_show"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// IsValid reports whether s is a known appointment status.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusInProgress, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow,
		AppointmentStatusRescheduled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled,
		AppointmentStatusNoShow, AppointmentStatusRescheduled:
		return true
	}
	return false
}

// Appointment is a patient's booking of one time slot. Appointments are
// never hard-deleted; cancellation is a status change. A rescheduled
// appointment is superseded by a fresh scheduled one on a new slot.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date      time.Time         `gorm:"type:date;not null;index" json:"date"`
	StartTime LocalTime         `gorm:"type:time;not null" json:"start_time"`
	Duration  int               `gorm:"not null" json:"duration"` // minutes
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// EndTime returns the exclusive end of the appointment interval.
func (a *Appointment) EndTime() LocalTime {
	return a.StartTime.AddMinutes(a.Duration)
}

// IsCancelled reports whether the appointment was cancelled.
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

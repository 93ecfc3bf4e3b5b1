package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus is the state of a materialized time slot.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusBlocked   SlotStatus = "blocked"
	SlotStatusBreak     SlotStatus = "break"
)

// IsValid reports whether s is a known slot status.
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusBooked, SlotStatusBlocked, SlotStatusBreak:
		return true
	}
	return false
}

// TimeSlot is a materialized bookable interval for one doctor on one date.
// Invariant: no two slots for the same (doctor, date) overlap. A booked
// slot carries its appointment ID and is only mutated through the
// appointment lifecycle.
type TimeSlot struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_time_slots_doctor_date;uniqueIndex:idx_time_slots_doctor_date_start" json:"doctor_id"`
	Date          time.Time  `gorm:"type:date;not null;index:idx_time_slots_doctor_date;uniqueIndex:idx_time_slots_doctor_date_start" json:"date"`
	StartTime     LocalTime  `gorm:"type:time;not null;uniqueIndex:idx_time_slots_doctor_date_start" json:"start_time"`
	EndTime       LocalTime  `gorm:"type:time;not null" json:"end_time"`
	Duration      int        `gorm:"not null" json:"duration"` // minutes
	Status        SlotStatus `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor      DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Appointment *Appointment  `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// IsBooked reports whether the slot is held by an appointment.
func (s *TimeSlot) IsBooked() bool {
	return s.Status == SlotStatusBooked
}

// Overlaps reports whether the slot intersects [start, end).
func (s *TimeSlot) Overlaps(start, end LocalTime) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

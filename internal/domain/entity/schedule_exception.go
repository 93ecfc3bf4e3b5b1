package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExceptionType classifies a per-date schedule override.
type ExceptionType string

const (
	ExceptionUnavailable ExceptionType = "unavailable"
	ExceptionCustomHours ExceptionType = "custom_hours"
	ExceptionHoliday     ExceptionType = "holiday"
	ExceptionVacation    ExceptionType = "vacation"
)

// IsValid reports whether t is a known exception type.
func (t ExceptionType) IsValid() bool {
	switch t {
	case ExceptionUnavailable, ExceptionCustomHours, ExceptionHoliday, ExceptionVacation:
		return true
	}
	return false
}

// BlocksDay reports whether the exception makes the whole date unbookable.
func (t ExceptionType) BlocksDay() bool {
	return t == ExceptionUnavailable || t == ExceptionHoliday || t == ExceptionVacation
}

// ScheduleException overrides a doctor's working hours for one calendar date.
// At most one exception exists per (doctor, date); creating another replaces it.
type ScheduleException struct {
	ID        int           `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_exceptions_doctor_date,unique" json:"doctor_id"`
	Date      time.Time     `gorm:"type:date;not null;index:idx_exceptions_doctor_date,unique" json:"date"`
	Type      ExceptionType `gorm:"type:varchar(20);not null" json:"type"`
	StartTime *LocalTime    `gorm:"type:time" json:"start_time,omitempty"`
	EndTime   *LocalTime    `gorm:"type:time" json:"end_time,omitempty"`
	Reason    string        `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (ScheduleException) TableName() string {
	return "schedule_exceptions"
}

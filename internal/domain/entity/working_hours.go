package entity

import (
	"time"

	"github.com/google/uuid"
)

// WorkingHours is a doctor's base schedule for one weekday.
// One row may exist per (doctor, day_of_week).
type WorkingHours struct {
	ID         int        `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_working_hours_doctor_day,unique" json:"doctor_id"`
	DayOfWeek  DayOfWeek  `gorm:"not null;index:idx_working_hours_doctor_day,unique" json:"day_of_week"`
	StartTime  LocalTime  `gorm:"type:time;not null" json:"start_time"`
	EndTime    LocalTime  `gorm:"type:time;not null" json:"end_time"`
	BreakStart *LocalTime `gorm:"type:time" json:"break_start,omitempty"`
	BreakEnd   *LocalTime `gorm:"type:time" json:"break_end,omitempty"`
	IsWorking  bool       `gorm:"not null;default:true" json:"is_working"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (WorkingHours) TableName() string {
	return "working_hours"
}

// HasBreak reports whether both break bounds are set.
func (w *WorkingHours) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotTemplate is one interval inside a day template. Status is the state
// the slot materializes with; empty means available.
type SlotTemplate struct {
	StartTime LocalTime  `json:"start_time"`
	EndTime   LocalTime  `json:"end_time"`
	Duration  int        `json:"duration"` // minutes
	Status    SlotStatus `json:"status,omitempty"`
}

// MaterializedStatus resolves the status a slot built from this template
// gets, defaulting to available.
func (t SlotTemplate) MaterializedStatus() SlotStatus {
	if t.Status == "" {
		return SlotStatusAvailable
	}
	return t.Status
}

// DayPattern is the template for one weekday inside an AvailabilityPattern.
type DayPattern struct {
	DayOfWeek   DayOfWeek      `json:"day_of_week"`
	IsAvailable bool           `json:"is_available"`
	TimeSlots   []SlotTemplate `json:"time_slots"`
}

// WeeklyPattern is the JSONB payload of an AvailabilityPattern: one entry
// per weekday that the pattern defines.
type WeeklyPattern []DayPattern

// Value implements driver.Valuer for JSONB storage.
func (p WeeklyPattern) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *WeeklyPattern) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, p)
}

// ForDay returns the pattern entry for a weekday, or nil if the pattern
// does not define that day.
func (p WeeklyPattern) ForDay(day DayOfWeek) *DayPattern {
	for i := range p {
		if p[i].DayOfWeek == day {
			return &p[i]
		}
	}
	return nil
}

// AvailabilityPattern is a named weekly template a doctor can apply to a
// date range. Patterns are never consulted live; applying one materializes
// slots through the bulk edit engine.
type AvailabilityPattern struct {
	ID            int           `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Name          string        `gorm:"type:varchar(100);not null" json:"name"`
	Description   string        `gorm:"type:text" json:"description,omitempty"`
	WeeklyPattern WeeklyPattern `gorm:"type:jsonb;not null" json:"weekly_pattern"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (AvailabilityPattern) TableName() string {
	return "availability_patterns"
}

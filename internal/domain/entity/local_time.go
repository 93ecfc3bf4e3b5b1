package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// LocalTime is a wall-clock time of day with minute precision, no timezone.
// Stored as "HH:MM" in the database and over the wire.
type LocalTime struct {
	minutes int // minutes since midnight, 0..1439
}

var ErrInvalidLocalTime = errors.New("invalid time format, use HH:MM")

// ParseLocalTime parses an "HH:MM" string into a LocalTime.
func ParseLocalTime(s string) (LocalTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return LocalTime{}, ErrInvalidLocalTime
	}
	return LocalTime{minutes: t.Hour()*60 + t.Minute()}, nil
}

// MustLocalTime parses an "HH:MM" string and panics on failure.
// Intended for constants and tests.
func MustLocalTime(s string) LocalTime {
	t, err := ParseLocalTime(s)
	if err != nil {
		panic(fmt.Sprintf("entity: bad local time %q", s))
	}
	return t
}

// LocalTimeFromMinutes builds a LocalTime from minutes since midnight.
func LocalTimeFromMinutes(m int) (LocalTime, error) {
	if m < 0 || m >= 24*60 {
		return LocalTime{}, ErrInvalidLocalTime
	}
	return LocalTime{minutes: m}, nil
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Minutes returns minutes since midnight.
func (t LocalTime) Minutes() int {
	return t.minutes
}

// AddMinutes returns t shifted forward by m minutes.
// The result is clamped to the end of day; slots never span midnight.
func (t LocalTime) AddMinutes(m int) LocalTime {
	total := t.minutes + m
	if total > 24*60 {
		total = 24 * 60
	}
	return LocalTime{minutes: total}
}

func (t LocalTime) Before(other LocalTime) bool {
	return t.minutes < other.minutes
}

func (t LocalTime) After(other LocalTime) bool {
	return t.minutes > other.minutes
}

func (t LocalTime) Equal(other LocalTime) bool {
	return t.minutes == other.minutes
}

// Sub returns the difference t - other in minutes.
func (t LocalTime) Sub(other LocalTime) int {
	return t.minutes - other.minutes
}

// IsZero reports whether t is midnight, the zero value.
func (t LocalTime) IsZero() bool {
	return t.minutes == 0
}

// Value implements driver.Valuer, storing the time as "HH:MM".
func (t LocalTime) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner. Accepts "HH:MM" and "HH:MM:SS" (postgres time).
func (t *LocalTime) Scan(value interface{}) error {
	if value == nil {
		*t = LocalTime{}
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*t = LocalTime{minutes: v.Hour()*60 + v.Minute()}
		return nil
	default:
		return fmt.Errorf("entity: cannot scan %T into LocalTime", value)
	}
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

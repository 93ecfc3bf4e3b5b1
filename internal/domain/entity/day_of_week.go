package entity

import "time"

// DayOfWeek follows time.Weekday numbering: 0 = Sunday .. 6 = Saturday.
type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DayOfWeekFromDate returns the weekday of a calendar date.
func DayOfWeekFromDate(date time.Time) DayOfWeek {
	return DayOfWeek(date.Weekday())
}

func (d DayOfWeek) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

func (d DayOfWeek) String() string {
	return time.Weekday(d).String()
}

package scheduling

import "time"

// NextWeek returns the date exactly one week later, landing on the same
// weekday.
func NextWeek(date time.Time) time.Time {
	return date.AddDate(0, 0, 7)
}

// DatesInRange returns every calendar date from start to end inclusive.
// Returns nil when end precedes start.
func DatesInRange(start, end time.Time) []time.Time {
	start = Midnight(start)
	end = Midnight(end)
	if end.Before(start) {
		return nil
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Midnight truncates a timestamp to its calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

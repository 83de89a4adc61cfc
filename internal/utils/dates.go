package utils

import "time"

// TruncateToDay normalizes a timestamp to midnight in its own location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the whole calendar days from now until target. Both
// values are truncated to midnight first; a negative result means target
// is in the past.
func DaysUntil(now, target time.Time) int {
	from := TruncateToDay(now)
	to := TruncateToDay(target.In(now.Location()))
	return int(to.Sub(from).Hours() / 24)
}

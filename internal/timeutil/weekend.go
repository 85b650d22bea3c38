package timeutil

import "time"

// IsWeekend reports whether date falls on a weekend. Saturday and Sunday
// always count; Friday counts only when includeFriday is set.
func IsWeekend(date time.Time, includeFriday bool) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	case time.Friday:
		return includeFriday
	default:
		return false
	}
}

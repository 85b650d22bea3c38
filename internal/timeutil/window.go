package timeutil

import "time"

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayWindow returns the half-open interval [midnight, next midnight)
// covering the calendar day of date.
func DayWindow(date time.Time) (time.Time, time.Time) {
	start := StartOfDay(date)
	return start, start.AddDate(0, 0, 1)
}

// RangeWindow returns the half-open interval covering every calendar day
// from start through end inclusive. end itself is fully included; the day
// after it is not.
func RangeWindow(start, end time.Time) (time.Time, time.Time) {
	return StartOfDay(start), StartOfDay(end).AddDate(0, 0, 1)
}

// MonthsBefore returns the date months calendar months before date, at
// midnight. The day of month is preserved, clamped to the last valid day
// when the target month is shorter (Mar 31 minus one month is Feb 28/29).
func MonthsBefore(date time.Time, months int) time.Time {
	year, month, day := date.Date()
	first := time.Date(year, month-time.Month(months), 1, 0, 0, 0, 0, date.Location())

	// Day zero of the following month is the last day of the target month.
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, date.Location()).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, date.Location())
}

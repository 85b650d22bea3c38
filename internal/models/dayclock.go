package models

import (
	"fmt"
	"time"
)

// DayClock is a time of day in whole seconds since local midnight.
// Sub-second precision is never persisted; every write rounds to the
// nearest second first. DayClockNone marks an unset value and cannot
// collide with a legitimate midnight reading.
type DayClock int64

const DayClockNone DayClock = -1

// DayClockOf extracts the time of day from t, rounded to the nearest
// whole second (half rounds away from zero). Rounding is applied before
// the day boundary is computed, so a value within half a second of
// midnight resolves to second zero of the following day.
func DayClockOf(t time.Time) DayClock {
	rt := t.Round(time.Second)
	midnight := time.Date(rt.Year(), rt.Month(), rt.Day(), 0, 0, 0, 0, rt.Location())
	return DayClock(rt.Sub(midnight) / time.Second)
}

func (d DayClock) IsSet() bool {
	return d >= 0
}

// Duration converts the time of day to an offset from midnight.
// Unset values convert to zero.
func (d DayClock) Duration() time.Duration {
	if !d.IsSet() {
		return 0
	}
	return time.Duration(d) * time.Second
}

func (d DayClock) String() string {
	if !d.IsSet() {
		return "unset"
	}
	return fmt.Sprintf("%02d:%02d:%02d", d/3600, d/60%60, d%60)
}

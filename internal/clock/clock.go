package clock

import "time"

// Clock supplies the current time to everything in the core that needs one.
// Injecting it keeps meeting timings deterministic under test and allows
// demo runs pinned to an arbitrary epoch.
type Clock interface {
	Now() time.Time
	UTCNow() time.Time
	// Today returns the current local calendar date with the time of day stripped.
	Today() time.Time
}

type SystemClock struct{}

func NewSystemClock() Clock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

func (c *SystemClock) UTCNow() time.Time {
	return time.Now().UTC()
}

func (c *SystemClock) Today() time.Time {
	return truncateToDay(time.Now())
}

// ForcedClock is pinned to an arbitrary epoch at construction but keeps
// moving forward: Now() is forced + (real time elapsed since construction),
// so durations measured between two Now() calls observe real elapsed time.
type ForcedClock struct {
	forced time.Time
	base   time.Time
}

func NewForcedClock(forced time.Time) Clock {
	return &ForcedClock{
		forced: forced,
		base:   time.Now(),
	}
}

func (c *ForcedClock) Now() time.Time {
	return c.forced.Add(time.Since(c.base))
}

func (c *ForcedClock) UTCNow() time.Time {
	return c.Now().UTC()
}

func (c *ForcedClock) Today() time.Time {
	return truncateToDay(c.Now())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

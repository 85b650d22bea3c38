package models

import "time"

// SegmentState tracks a segment's lifecycle explicitly instead of
// overloading a zero end time, which would be ambiguous for a genuinely
// zero-length segment.
type SegmentState int

const (
	SegmentStateUnset SegmentState = iota
	SegmentStateRunning
	SegmentStateFinished
)

// SegmentRecord is one timed agenda item within a session.
type SegmentRecord struct {
	Description string        `json:"description"`
	SpecialTalk bool          `json:"special_talk"`
	Start       DayClock      `json:"start"`
	End         DayClock      `json:"end"`
	Planned     time.Duration `json:"planned"`
	Adapted     time.Duration `json:"adapted"`
	State       SegmentState  `json:"state"`
}

// Open reports whether the segment has been started but not yet stopped.
func (s *SegmentRecord) Open() bool {
	return s.State == SegmentStateRunning
}

// Elapsed returns the measured segment length, zero while still running.
func (s *SegmentRecord) Elapsed() time.Duration {
	if s.State != SegmentStateFinished {
		return 0
	}
	return s.End.Duration() - s.Start.Duration()
}

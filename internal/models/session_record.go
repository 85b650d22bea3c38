package models

import (
	"time"

	"github.com/google/uuid"

	"mtd/internal/clock"
	"mtd/internal/timeutil"
)

// SessionRecord holds the timing data of one meeting occurrence. It is
// mutated incrementally while the meeting runs and handed to the store
// exactly once after completion. The calendar date locks on the first
// date-locking mutator and never changes afterwards.
type SessionRecord struct {
	SessionID  string          `json:"session_id"`
	Seq        int64           `json:"seq"`
	Date       time.Time       `json:"date"`
	Start      DayClock        `json:"start"`
	PlannedEnd DayClock        `json:"planned_end"`
	ActualEnd  DayClock        `json:"actual_end"`
	Segments   []SegmentRecord `json:"segments"`

	clk        clock.Clock
	dateLocked bool
}

// NewSessionRecord creates an empty record for a meeting that is about to
// start. The session identifier is assigned here; the storage sequence is
// assigned by the store on insert.
func NewSessionRecord(clk clock.Clock) *SessionRecord {
	return &SessionRecord{
		SessionID:  uuid.New().String(),
		Start:      DayClockNone,
		PlannedEnd: DayClockNone,
		ActualEnd:  DayClockNone,
		clk:        clk,
	}
}

// lockDate sets the calendar date if it is still unset. Subsequent calls
// are no-ops regardless of the timestamp passed.
func (r *SessionRecord) lockDate(t time.Time) {
	if r.dateLocked {
		return
	}
	r.Date = timeutil.StartOfDay(t)
	r.dateLocked = true
}

// InsertPlannedEnd records the planned end time of day. It neither sets
// nor locks the date.
func (r *SessionRecord) InsertPlannedEnd(t time.Time) {
	r.PlannedEnd = DayClockOf(t)
}

// InsertStart locks the date to t's day and records the meeting start.
func (r *SessionRecord) InsertStart(t time.Time) {
	r.lockDate(t)
	r.Start = DayClockOf(t)
}

// InsertActualEnd locks the date to today and records the actual end,
// both taken from the clock.
func (r *SessionRecord) InsertActualEnd() {
	r.lockDate(r.clk.Today())
	r.ActualEnd = DayClockOf(r.clk.Now())
}

// InsertSegmentStart appends a running segment starting now.
func (r *SessionRecord) InsertSegmentStart(description string, specialTalk bool, planned, adapted time.Duration) {
	r.lockDate(r.clk.Today())
	r.Segments = append(r.Segments, SegmentRecord{
		Description: description,
		SpecialTalk: specialTalk,
		Start:       DayClockOf(r.clk.Now()),
		End:         DayClockNone,
		Planned:     planned.Round(time.Second),
		Adapted:     adapted.Round(time.Second),
		State:       SegmentStateRunning,
	})
}

// InsertSegmentStop closes the earliest still-running segment matching
// description and flag. Without a match the call is a no-op; tolerating
// UI-driven double stops is preferable to failing the meeting.
func (r *SessionRecord) InsertSegmentStop(description string, specialTalk bool) {
	for i := range r.Segments {
		seg := &r.Segments[i]
		if seg.Open() && seg.Description == description && seg.SpecialTalk == specialTalk {
			seg.End = DayClockOf(r.clk.Now())
			seg.State = SegmentStateFinished
			return
		}
	}
}

// Overrun is actual end minus planned end. Negative means the meeting
// finished early. Zero until both ends are recorded.
func (r *SessionRecord) Overrun() time.Duration {
	if !r.PlannedEnd.IsSet() || !r.ActualEnd.IsSet() {
		return 0
	}
	return r.ActualEnd.Duration() - r.PlannedEnd.Duration()
}

// Ended reports whether both planned and actual end have been recorded,
// i.e. whether Overrun carries meaning.
func (r *SessionRecord) Ended() bool {
	return r.PlannedEnd.IsSet() && r.ActualEnd.IsSet()
}

// Purge resets the record for reuse by a subsequent meeting without ever
// touching the store, then immediately re-locks the date to today: a
// fresh meeting has begun now.
func (r *SessionRecord) Purge() {
	r.Date = time.Time{}
	r.dateLocked = false
	r.Start = DayClockNone
	r.PlannedEnd = DayClockNone
	r.ActualEnd = DayClockNone
	r.Segments = nil
	r.lockDate(r.clk.Today())
}

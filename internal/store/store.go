package store

import (
	"database/sql"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"mtd/internal/models"
	"mtd/internal/providers"
	"mtd/internal/structures"
	"mtd/internal/timeutil"
)

const dateLayout = "2006-01-02"

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		meeting_date TEXT NOT NULL,
		start_sec INTEGER NOT NULL,
		planned_end_sec INTEGER NOT NULL,
		actual_end_sec INTEGER NOT NULL,
		segments_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_session_id ON sessions(session_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(meeting_date);
	`

// Store is the durable single-file persistence for session records.
// Every operation independently acquires the file gate, opens the
// database fresh and closes it before returning; there are no
// cross-call transactions and no cached connections. Records passed in
// or handed out are never mutated by the store.
type Store struct {
	path   string
	gate   *sync.Mutex
	logger providers.Logger
}

func New(conf *structures.Config, logger providers.Logger) *Store {
	return &Store{
		path:   conf.Database.FilePath,
		gate:   gateFor(conf.Database.FilePath),
		logger: logger,
	}
}

// withDB runs fn against a freshly opened database under the file gate.
// The schema is (re)created on every open; DeleteAll relies on this to
// leave the store usable afterwards.
func (s *Store) withDB(op string, fn func(db *sql.DB) error) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	db, err := sql.Open("sqlite", "file:"+s.path)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return &StorageError{Op: op, Err: err}
	}

	if err := fn(db); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// Save appends the record as a new row. The storage sequence is assigned
// by the database; the caller's record is left untouched.
func (s *Store) Save(rec *models.SessionRecord) error {
	return s.withDB("save", func(db *sql.DB) error {
		segments, err := json.Marshal(rec.Segments)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO sessions (session_id, meeting_date, start_sec, planned_end_sec, actual_end_sec, segments_json)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			rec.SessionID,
			formatDate(rec.Date),
			int64(rec.Start),
			int64(rec.PlannedEnd),
			int64(rec.ActualEnd),
			string(segments),
		)
		if err != nil {
			return err
		}

		s.logger.Debugf(providers.TypeApp, "Saved session %s", rec.SessionID)
		return nil
	})
}

// GetBySessionID returns the first record matching the session identifier,
// or nil when none exists. Absence is an expected outcome, not an error.
func (s *Store) GetBySessionID(sessionID string) (*models.SessionRecord, error) {
	var rec *models.SessionRecord
	err := s.withDB("get_by_session_id", func(db *sql.DB) error {
		row := db.QueryRow(`
			SELECT seq, session_id, meeting_date, start_sec, planned_end_sec, actual_end_sec, segments_json
			FROM sessions
			WHERE session_id = ?
			ORDER BY seq ASC
			LIMIT 1
		`, sessionID)

		r, err := scanSession(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	return rec, err
}

// GetByDate returns all records dated on the given calendar day, ascending
// by storage sequence so same-day records keep their insertion order.
func (s *Store) GetByDate(date time.Time) ([]*models.SessionRecord, error) {
	start, end := timeutil.DayWindow(date)
	return s.queryWindow("get_by_date", start, end)
}

// GetByDateRange returns all records dated from startDate through endDate
// inclusive, ascending by storage sequence.
func (s *Store) GetByDateRange(startDate, endDate time.Time) ([]*models.SessionRecord, error) {
	start, end := timeutil.RangeWindow(startDate, endDate)
	return s.queryWindow("get_by_date_range", start, end)
}

func (s *Store) queryWindow(op string, start, end time.Time) ([]*models.SessionRecord, error) {
	var records []*models.SessionRecord
	err := s.withDB(op, func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT seq, session_id, meeting_date, start_sec, planned_end_sec, actual_end_sec, segments_json
			FROM sessions
			WHERE meeting_date >= ? AND meeting_date < ?
			ORDER BY seq ASC
		`, start.Format(dateLayout), end.Format(dateLayout))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanSession(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteAll drops every stored record permanently. The collection is
// recreated on the next operation, so a subsequent Save still succeeds.
func (s *Store) DeleteAll() error {
	return s.withDB("delete_all", func(db *sql.DB) error {
		if _, err := db.Exec(`DROP TABLE IF EXISTS sessions`); err != nil {
			return err
		}
		s.logger.Warnf(providers.TypeApp, "Deleted all stored sessions")
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.SessionRecord, error) {
	var (
		rec          models.SessionRecord
		dateStr      string
		startSec     int64
		plannedSec   int64
		actualSec    int64
		segmentsJSON string
	)

	if err := row.Scan(&rec.Seq, &rec.SessionID, &dateStr, &startSec, &plannedSec, &actualSec, &segmentsJSON); err != nil {
		return nil, err
	}

	if dateStr != "" {
		date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
		if err != nil {
			return nil, err
		}
		rec.Date = date
	}

	rec.Start = models.DayClock(startSec)
	rec.PlannedEnd = models.DayClock(plannedSec)
	rec.ActualEnd = models.DayClock(actualSec)

	if err := json.Unmarshal([]byte(segmentsJSON), &rec.Segments); err != nil {
		return nil, err
	}
	return &rec, nil
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(dateLayout)
}

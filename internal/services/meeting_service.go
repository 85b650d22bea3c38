package services

import (
	"fmt"
	"sync"
	"time"

	"mtd/internal/clock"
	"mtd/internal/history"
	"mtd/internal/models"
	"mtd/internal/providers"
	"mtd/internal/structures"
)

// SessionStore is the slice of the store the service needs.
type SessionStore interface {
	Save(rec *models.SessionRecord) error
	GetBySessionID(sessionID string) (*models.SessionRecord, error)
	GetByDate(date time.Time) ([]*models.SessionRecord, error)
	GetByDateRange(startDate, endDate time.Time) ([]*models.SessionRecord, error)
}

type Summarizer interface {
	Summarize(asOf time.Time, windowMonths int) (*history.Summary, error)
}

type MeetingServiceInterface interface {
	BeginMeeting(at time.Time)
	MarkPlannedEnd(at time.Time)
	BeginSegment(description string, specialTalk bool, planned, adapted time.Duration)
	EndSegment(description string, specialTalk bool)
	FinishMeeting() (*models.SessionRecord, error)
	DiscardMeeting()
	Current() *models.SessionRecord

	SaveCompleted(rec *models.SessionRecord) error
	SessionByID(id string) (*models.SessionRecord, error)
	SessionsByDate(date time.Time) ([]*models.SessionRecord, error)
	SessionsByRange(from, to time.Time) ([]*models.SessionRecord, error)
	History(months int) (*history.Summary, error)
}

// MeetingService owns the one in-flight session record and routes the
// read side to the store and aggregator. Store calls are timed and
// counted through the metrics provider; failures are logged here and
// still returned to the caller, who decides whether to retry.
type MeetingService struct {
	mu           sync.Mutex
	clk          clock.Clock
	store        SessionStore
	summarizer   Summarizer
	metrics      providers.MetricsProviderInterface
	logger       providers.Logger
	windowMonths int
	current      *models.SessionRecord
}

func NewMeetingService(conf *structures.Config, clk clock.Clock, store SessionStore, summarizer Summarizer, metrics providers.MetricsProviderInterface, logger providers.Logger) MeetingServiceInterface {
	return &MeetingService{
		clk:          clk,
		store:        store,
		summarizer:   summarizer,
		metrics:      metrics,
		logger:       logger,
		windowMonths: conf.History.WindowMonths,
	}
}

// ensureCurrent returns the in-flight record, creating one on demand.
// Callers must hold ms.mu.
func (ms *MeetingService) ensureCurrent() *models.SessionRecord {
	if ms.current == nil {
		ms.current = models.NewSessionRecord(ms.clk)
	}
	return ms.current
}

// BeginMeeting starts a fresh meeting at the given timestamp. A leftover
// unsaved record from a previous meeting is purged, not persisted.
func (ms *MeetingService) BeginMeeting(at time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.current != nil {
		ms.current.Purge()
	}
	rec := ms.ensureCurrent()
	rec.InsertStart(at)
	ms.logger.Infof(providers.TypeApp, "Meeting %s started", rec.SessionID)
}

func (ms *MeetingService) MarkPlannedEnd(at time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.ensureCurrent().InsertPlannedEnd(at)
}

func (ms *MeetingService) BeginSegment(description string, specialTalk bool, planned, adapted time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.ensureCurrent().InsertSegmentStart(description, specialTalk, planned, adapted)
}

func (ms *MeetingService) EndSegment(description string, specialTalk bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.ensureCurrent().InsertSegmentStop(description, specialTalk)
}

// FinishMeeting records the actual end and persists the session. On a
// failed save the record is kept in flight so the caller can retry; the
// meeting itself must never be lost to a storage problem.
func (ms *MeetingService) FinishMeeting() (*models.SessionRecord, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.current == nil {
		return nil, fmt.Errorf("no meeting in progress")
	}

	ms.current.InsertActualEnd()
	if err := ms.save(ms.current); err != nil {
		return nil, err
	}

	finished := ms.current
	ms.current = nil
	ms.logger.Infof(providers.TypeApp, "Meeting %s finished, overrun %s", finished.SessionID, finished.Overrun())
	return finished, nil
}

// DiscardMeeting drops the in-flight record without persisting anything.
func (ms *MeetingService) DiscardMeeting() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.current != nil {
		ms.current.Purge()
	}
}

func (ms *MeetingService) Current() *models.SessionRecord {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.current
}

// SaveCompleted persists a session record assembled elsewhere, e.g. one
// arriving through the reporting surface.
func (ms *MeetingService) SaveCompleted(rec *models.SessionRecord) error {
	return ms.save(rec)
}

func (ms *MeetingService) save(rec *models.SessionRecord) error {
	start := time.Now()
	err := ms.store.Save(rec)
	ms.metrics.ObserveStoreDuration("save", time.Since(start))
	if err != nil {
		ms.metrics.IncStoreErrors("save")
		ms.logger.Errorf(providers.TypeApp, "Failed to save session %s: %s", rec.SessionID, err)
		return err
	}
	ms.metrics.IncSessionsSaved()
	return nil
}

func (ms *MeetingService) SessionByID(id string) (*models.SessionRecord, error) {
	return ms.store.GetBySessionID(id)
}

func (ms *MeetingService) SessionsByDate(date time.Time) ([]*models.SessionRecord, error) {
	return ms.store.GetByDate(date)
}

func (ms *MeetingService) SessionsByRange(from, to time.Time) ([]*models.SessionRecord, error) {
	return ms.store.GetByDateRange(from, to)
}

// History summarizes overruns over the trailing months window ending
// today. A non-positive months falls back to the configured window.
func (ms *MeetingService) History(months int) (*history.Summary, error) {
	if months <= 0 {
		months = ms.windowMonths
	}
	return ms.summarizer.Summarize(ms.clk.Today(), months)
}

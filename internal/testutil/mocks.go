package testutil

import (
	"sync"
	"time"

	"mtd/internal/models"
	"mtd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any entry with the given level was recorded.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// the calls a test cares about.
type MockMetrics struct {
	mu             sync.Mutex
	RequestsTotal  int
	CacheHits      int
	CacheMisses    int
	StoreDurations map[string]int
	StoreErrors    map[string]int
	SessionsSaved  int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsTotal++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObserveStoreDuration(op string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreDurations == nil {
		m.StoreDurations = make(map[string]int)
	}
	m.StoreDurations[op]++
}

func (m *MockMetrics) IncStoreErrors(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErrors == nil {
		m.StoreErrors = make(map[string]int)
	}
	m.StoreErrors[op]++
}

func (m *MockMetrics) IncSessionsSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsSaved++
}

// MockCompressor implements export/interfaces.CompressorInterface with
// injectable behavior. Defaults to identity.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockStore satisfies services.SessionStore, history.RangeQuerier and
// export.RangeReader.
type MockStore struct {
	mu       sync.Mutex
	Saved    []*models.SessionRecord
	SaveErr  error
	Records  []*models.SessionRecord
	ByID     map[string]*models.SessionRecord
	QueryErr error
}

func (m *MockStore) Save(rec *models.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, rec)
	return nil
}

func (m *MockStore) GetBySessionID(id string) (*models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return m.ByID[id], nil
}

func (m *MockStore) GetByDate(_ time.Time) ([]*models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return m.Records, nil
}

func (m *MockStore) GetByDateRange(_, _ time.Time) ([]*models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return m.Records, nil
}

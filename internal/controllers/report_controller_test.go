package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtd/internal/history"
	"mtd/internal/models"
	"mtd/internal/testutil"
)

// mockService implements services.MeetingServiceInterface with injectable
// read-side answers. The capture side is not exercised by the controllers.
type mockService struct {
	current    *models.SessionRecord
	saved      []*models.SessionRecord
	saveErr    error
	byID       map[string]*models.SessionRecord
	records    []*models.SessionRecord
	queryErr   error
	summary    *history.Summary
	summaryErr error
	months     int
}

func (m *mockService) BeginMeeting(_ time.Time)                                        {}
func (m *mockService) MarkPlannedEnd(_ time.Time)                                      {}
func (m *mockService) BeginSegment(_ string, _ bool, _ time.Duration, _ time.Duration) {}
func (m *mockService) EndSegment(_ string, _ bool)                                     {}
func (m *mockService) FinishMeeting() (*models.SessionRecord, error)                   { return nil, nil }
func (m *mockService) DiscardMeeting()                                                 {}
func (m *mockService) Current() *models.SessionRecord                                  { return m.current }

func (m *mockService) SaveCompleted(rec *models.SessionRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockService) SessionByID(id string) (*models.SessionRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.byID[id], nil
}

func (m *mockService) SessionsByDate(_ time.Time) ([]*models.SessionRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.records, nil
}

func (m *mockService) SessionsByRange(_, _ time.Time) ([]*models.SessionRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.records, nil
}

func (m *mockService) History(months int) (*history.Summary, error) {
	m.months = months
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	return m.summary, nil
}

func newReportController(svc *mockService) (*ReportController, *testutil.MockCache) {
	cache := testutil.NewMockCache()
	return NewReportController(&testutil.MockLogger{}, svc, cache), cache
}

func TestSaveSession(t *testing.T) {
	svc := &mockService{}
	rc, _ := newReportController(svc)

	body, err := json.Marshal(models.SessionRecord{SessionID: "sess-1"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	rc.SaveSession(w, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.saved, 1)
	assert.Equal(t, "sess-1", svc.saved[0].SessionID)
}

func TestSaveSession_MalformedBody(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.SaveSession(w, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte("{not json"))))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveSession_MissingSessionID(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.SaveSession(w, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte("{}"))))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveSession_StorageFailure(t *testing.T) {
	svc := &mockService{saveErr: errors.New("disk full")}
	rc, _ := newReportController(svc)

	body, err := json.Marshal(models.SessionRecord{SessionID: "sess-1"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	rc.SaveSession(w, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetSession(t *testing.T) {
	rec := &models.SessionRecord{SessionID: "sess-1", Start: models.DayClock(9 * 3600)}
	svc := &mockService{byID: map[string]*models.SessionRecord{"sess-1": rec}}
	rc, _ := newReportController(svc)

	w := httptest.NewRecorder()
	rc.GetSession(w, httptest.NewRequest(http.MethodGet, "/session?id=sess-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got models.SessionRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "sess-1", got.SessionID)
}

func TestGetSession_MissingID(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.GetSession(w, httptest.NewRequest(http.MethodGet, "/session", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.GetSession(w, httptest.NewRequest(http.MethodGet, "/session?id=absent", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSession_QueryFailure(t *testing.T) {
	svc := &mockService{queryErr: errors.New("disk gone")}
	rc, _ := newReportController(svc)

	w := httptest.NewRecorder()
	rc.GetSession(w, httptest.NewRequest(http.MethodGet, "/session?id=sess-1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetSessionsByDate(t *testing.T) {
	svc := &mockService{records: []*models.SessionRecord{{SessionID: "sess-1"}}}
	rc, cache := newReportController(svc)

	w := httptest.NewRecorder()
	rc.GetSessionsByDate(w, httptest.NewRequest(http.MethodGet, "/sessions/day?date=2024-06-15", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var got []models.SessionRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)

	_, ok := cache.Get("day:2024-06-15")
	assert.True(t, ok, "read responses are cached")
}

func TestGetSessionsByDate_BadDate(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.GetSessionsByDate(w, httptest.NewRequest(http.MethodGet, "/sessions/day?date=15.06.2024", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionsByDate_ServedFromCache(t *testing.T) {
	svc := &mockService{queryErr: errors.New("disk gone")}
	rc, cache := newReportController(svc)
	cache.Set("day:2024-06-15", []byte(`[{"session_id":"cached"}]`))

	w := httptest.NewRecorder()
	rc.GetSessionsByDate(w, httptest.NewRequest(http.MethodGet, "/sessions/day?date=2024-06-15", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cached")
}

func TestGetSessionsByRange(t *testing.T) {
	svc := &mockService{records: []*models.SessionRecord{{SessionID: "sess-1"}}}
	rc, cache := newReportController(svc)

	w := httptest.NewRecorder()
	rc.GetSessionsByRange(w, httptest.NewRequest(http.MethodGet, "/sessions/range?from=2024-01-01&to=2024-06-15", nil))

	require.Equal(t, http.StatusOK, w.Code)
	_, ok := cache.Get("range:2024-01-01:2024-06-15")
	assert.True(t, ok)
}

func TestGetSessionsByRange_InvertedRange(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.GetSessionsByRange(w, httptest.NewRequest(http.MethodGet, "/sessions/range?from=2024-06-15&to=2024-01-01", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionsByRange_MissingBound(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.GetSessionsByRange(w, httptest.NewRequest(http.MethodGet, "/sessions/range?from=2024-01-01", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistory(t *testing.T) {
	svc := &mockService{summary: &history.Summary{Rows: []history.Row{
		{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Overrun: 3 * time.Minute},
	}}}
	rc, _ := newReportController(svc)

	w := httptest.NewRecorder()
	rc.GetHistory(w, httptest.NewRequest(http.MethodGet, "/history?months=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, svc.months)

	var got history.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count())
}

func TestGetHistory_NoHistory(t *testing.T) {
	rc, _ := newReportController(&mockService{})

	w := httptest.NewRecorder()
	rc.GetHistory(w, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGetHistory_UnparsableMonthsFallsBack(t *testing.T) {
	svc := &mockService{}
	rc, _ := newReportController(svc)

	w := httptest.NewRecorder()
	rc.GetHistory(w, httptest.NewRequest(http.MethodGet, "/history?months=soon", nil))

	// A garbage months parameter reads as zero and defers to the
	// configured window.
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, svc.months)
}

func TestGetHistory_QueryFailure(t *testing.T) {
	svc := &mockService{summaryErr: errors.New("disk gone")}
	rc, _ := newReportController(svc)

	w := httptest.NewRecorder()
	rc.GetHistory(w, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"mtd/internal/models"
	"mtd/internal/providers"
	"mtd/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const dateParamLayout = "2006-01-02"

// ReportController is the thin reporting and ingest surface over the
// meeting service. It owns no business rules: parameter parsing, caching
// of read responses and status mapping only.
type ReportController struct {
	logger  providers.Logger
	service services.MeetingServiceInterface
	cache   providers.CacheProviderInterface
}

func NewReportController(logger providers.Logger, service services.MeetingServiceInterface, cache providers.CacheProviderInterface) *ReportController {
	return &ReportController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (rc *ReportController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := rc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		rc.logger.Errorf(providers.GetLogTypeByRequestType(http.MethodGet), "Query failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// SaveSession ingests one completed session record.
func (rc *ReportController) SaveSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.SessionRecord
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.SessionID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := rc.service.SaveCompleted(&payload); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GetSession looks a session up by its identity. Absence is 404, never 500.
func (rc *ReportController) GetSession(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	rec, err := rc.service.SessionByID(id)
	if err != nil {
		rc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Lookup of session %s failed: %s", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	gson, err := json.Marshal(rec)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (rc *ReportController) GetSessionsByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	date, err := time.ParseInLocation(dateParamLayout, dateStr, time.Local)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	rc.serveFromCacheOrCompute(w, "day:"+dateStr, func() (any, error) {
		return rc.service.SessionsByDate(date)
	})
}

func (rc *ReportController) GetSessionsByRange(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	from, err := time.ParseInLocation(dateParamLayout, fromStr, time.Local)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	to, err := time.ParseInLocation(dateParamLayout, toStr, time.Local)
	if err != nil || to.Before(from) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	rc.serveFromCacheOrCompute(w, "range:"+fromStr+":"+toStr, func() (any, error) {
		return rc.service.SessionsByRange(from, to)
	})
}

// GetHistory serves the overrun summary. No qualifying history is 204 No
// Content: an empty chart and a missing chart are different answers.
func (rc *ReportController) GetHistory(w http.ResponseWriter, r *http.Request) {
	months := cast.ToInt(r.URL.Query().Get("months"))

	summary, err := rc.service.History(months)
	if err != nil {
		rc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "History query failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if summary == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	gson, err := json.Marshal(summary)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

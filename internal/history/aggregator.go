package history

import (
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"mtd/internal/models"
	"mtd/internal/providers"
	"mtd/internal/timeutil"
)

// Row is one past session's contribution to the historical view: the
// meeting date and how far the actual end ran past the planned end.
// Negative overrun means the meeting finished early.
type Row struct {
	Date    time.Time     `json:"date"`
	Overrun time.Duration `json:"overrun"`
}

// Summary is the populated aggregate. A window with no qualifying
// sessions yields no Summary at all (nil), never an empty one, so the
// reporting side can tell "insufficient history" from "zero overrun
// everywhere".
type Summary struct {
	Rows []Row `json:"rows"`
}

func (s *Summary) Count() int {
	return len(s.Rows)
}

// Sort orders rows ascending by date. Ordering is established here, not
// maintained on insert.
func (s *Summary) Sort() {
	sort.SliceStable(s.Rows, func(i, j int) bool {
		return s.Rows[i].Date.Before(s.Rows[j].Date)
	})
}

// RangeQuerier is the slice of the store the aggregator needs.
type RangeQuerier interface {
	GetByDateRange(startDate, endDate time.Time) ([]*models.SessionRecord, error)
}

type Aggregator struct {
	store  RangeQuerier
	cache  providers.CacheProviderInterface
	logger providers.Logger
}

func NewAggregator(store RangeQuerier, cache providers.CacheProviderInterface, logger providers.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Summarize computes the overrun summary for the windowMonths calendar
// months leading up to and including asOf. Sessions missing either end
// marker are skipped. Storage errors from the range query propagate
// unchanged. Populated summaries are cached; "no data" never is.
func (a *Aggregator) Summarize(asOf time.Time, windowMonths int) (*Summary, error) {
	key := fmt.Sprintf("history:%s:%d", asOf.Format("2006-01-02"), windowMonths)
	if data, ok := a.cache.Get(key); ok {
		var cached Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	startDate := timeutil.MonthsBefore(asOf, windowMonths)
	records, err := a.store.GetByDateRange(startDate, asOf)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, rec := range records {
		if !rec.Ended() {
			continue
		}
		summary.Rows = append(summary.Rows, Row{Date: rec.Date, Overrun: rec.Overrun()})
	}

	if summary.Count() == 0 {
		a.logger.Debugf(providers.TypeApp, "No qualifying sessions in the %d month window before %s", windowMonths, asOf.Format("2006-01-02"))
		return nil, nil
	}

	summary.Sort()

	if data, err := json.Marshal(summary); err == nil {
		a.cache.Set(key, data)
	}
	return summary, nil
}

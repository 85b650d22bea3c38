package export

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"mtd/internal/clock"
	"mtd/internal/export/interfaces"
	"mtd/internal/models"
	"mtd/internal/providers"
	"mtd/internal/structures"
	"mtd/internal/timeutil"
)

// Snapshot is the on-disk export format: the trailing history window as
// of the export, compressed with zstd.
type Snapshot struct {
	ExportedAt   time.Time               `json:"exported_at"`
	WindowMonths int                     `json:"window_months"`
	Sessions     []*models.SessionRecord `json:"sessions"`
}

// RangeReader is the slice of the store the exporter needs.
type RangeReader interface {
	GetByDateRange(startDate, endDate time.Time) ([]*models.SessionRecord, error)
}

type Exporter struct {
	store        RangeReader
	clk          clock.Clock
	compressor   interfaces.CompressorInterface
	logger       providers.Logger
	windowMonths int
}

func NewExporter(conf *structures.Config, clk clock.Clock, store RangeReader, compressor interfaces.CompressorInterface, logger providers.Logger) *Exporter {
	return &Exporter{
		store:        store,
		clk:          clk,
		compressor:   compressor,
		logger:       logger,
		windowMonths: conf.History.WindowMonths,
	}
}

// SaveToFile writes the trailing window of sessions to fileName,
// atomically via a temp file so a crash mid-write never corrupts a
// previous export.
func (e *Exporter) SaveToFile(fileName string) error {
	asOf := e.clk.Today()
	sessions, err := e.store.GetByDateRange(timeutil.MonthsBefore(asOf, e.windowMonths), asOf)
	if err != nil {
		return err
	}

	snapshot := Snapshot{
		ExportedAt:   e.clk.UTCNow(),
		WindowMonths: e.windowMonths,
		Sessions:     sessions,
	}

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := e.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// ReadFile decodes a previously written export.
func (e *Exporter) ReadFile(fileName string) (*Snapshot, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	decompressed, err := e.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(decompressed, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (e *Exporter) Close() {
	e.compressor.Close()
}

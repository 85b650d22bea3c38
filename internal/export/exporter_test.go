package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtd/internal/clock"
	"mtd/internal/models"
	"mtd/internal/structures"
	"mtd/internal/testutil"
)

func exporterConfig() *structures.Config {
	return &structures.Config{
		History: structures.HistoryConfig{WindowMonths: 6},
	}
}

func testClock() clock.Clock {
	return clock.NewForcedClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local))
}

func TestExporter_SaveAndReadRoundTrip(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	st := &testutil.MockStore{
		Records: []*models.SessionRecord{
			{
				SessionID:  "sess-1",
				Date:       time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local),
				Start:      models.DayClock(9 * 3600),
				PlannedEnd: models.DayClock(10 * 3600),
				ActualEnd:  models.DayClock(10*3600 + 60),
			},
		},
	}
	e := NewExporter(exporterConfig(), testClock(), st, compressor, &testutil.MockLogger{})

	path := filepath.Join(t.TempDir(), "history.zst")
	require.NoError(t, e.SaveToFile(path))

	snapshot, err := e.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, snapshot.WindowMonths)
	assert.False(t, snapshot.ExportedAt.IsZero())
	require.Len(t, snapshot.Sessions, 1)
	assert.Equal(t, "sess-1", snapshot.Sessions[0].SessionID)
	assert.Equal(t, models.DayClock(10*3600+60), snapshot.Sessions[0].ActualEnd)
}

func TestExporter_SaveLeavesNoTempFile(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	e := NewExporter(exporterConfig(), testClock(), &testutil.MockStore{}, compressor, &testutil.MockLogger{})

	path := filepath.Join(t.TempDir(), "history.zst")
	require.NoError(t, e.SaveToFile(path))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestExporter_StoreErrorPropagates(t *testing.T) {
	queryErr := errors.New("disk gone")
	e := NewExporter(exporterConfig(), testClock(), &testutil.MockStore{QueryErr: queryErr}, &testutil.MockCompressor{}, &testutil.MockLogger{})

	path := filepath.Join(t.TempDir(), "history.zst")
	require.ErrorIs(t, e.SaveToFile(path), queryErr)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file is written on a failed export")
}

func TestExporter_CompressorErrorPropagates(t *testing.T) {
	compErr := errors.New("broken encoder")
	compressor := &testutil.MockCompressor{
		CompressFn: func(_ []byte) ([]byte, error) { return nil, compErr },
	}
	e := NewExporter(exporterConfig(), testClock(), &testutil.MockStore{}, compressor, &testutil.MockLogger{})

	path := filepath.Join(t.TempDir(), "history.zst")
	require.ErrorIs(t, e.SaveToFile(path), compErr)
}

func TestExporter_ReadMissingFile(t *testing.T) {
	e := NewExporter(exporterConfig(), testClock(), &testutil.MockStore{}, &testutil.MockCompressor{}, &testutil.MockLogger{})

	_, err := e.ReadFile(filepath.Join(t.TempDir(), "absent.zst"))
	assert.Error(t, err)
}

func TestExporter_ReadCorruptFile(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	e := NewExporter(exporterConfig(), testClock(), &testutil.MockStore{}, compressor, &testutil.MockLogger{})

	path := filepath.Join(t.TempDir(), "garbage.zst")
	require.NoError(t, os.WriteFile(path, []byte("not a zstd frame"), 0644))

	_, err = e.ReadFile(path)
	assert.Error(t, err)
}

func TestExporter_CloseReleasesCompressor(t *testing.T) {
	compressor := &testutil.MockCompressor{}
	e := NewExporter(exporterConfig(), testClock(), &testutil.MockStore{}, compressor, &testutil.MockLogger{})

	e.Close()
	assert.True(t, compressor.Closed)
}

func TestZstdCompression_RoundTrip(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	payload := []byte(`{"sessions":[{"session_id":"sess-1"}]}`)
	compressed, err := compressor.Compress(payload)
	require.NoError(t, err)

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, decompressed)
}

package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solburn/burnwatch/service/burn"
	"github.com/solburn/burnwatch/service/price"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(t.TempDir(), nil, logger)
}

func TestBurnReport_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	report := &burn.Report{
		Count:   2,
		TotalUI: "0.75",
		Burns: []burn.Record{
			{AmountUI: "0.5", URL: "https://solscan.io/tx/sig1"},
			{AmountUI: "0.25", URL: "https://solscan.io/tx/sig2"},
		},
	}
	require.NoError(t, s.SaveBurnReport(report))

	loaded, err := s.LoadBurnReport()
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
}

func TestLoadBurnReport_MissingFileYieldsEmptyAggregate(t *testing.T) {
	s := newTestStore(t)

	report, err := s.LoadBurnReport()
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
	assert.Equal(t, "0", report.TotalUI)
	assert.Empty(t, report.Burns)
}

func TestLoadBurnReport_EmptyFileYieldsEmptyAggregate(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.BurnPath(), nil, 0o644))

	report, err := s.LoadBurnReport()
	require.NoError(t, err)
	assert.Equal(t, "0", report.TotalUI)
}

func TestLoadBurnReport_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.BurnPath(), []byte("{not json"), 0o644))

	_, err := s.LoadBurnReport()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestPriceSnapshot_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	snap := &price.Snapshot{
		Mint:            "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		PriceUSD:        3.08,
		BurnTotalTokens: 0.75,
		BurnTotalUSD:    2.31,
		Decimals:        6,
		UpdatedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SavePriceSnapshot(snap))

	loaded, err := s.LoadPriceSnapshot()
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestLoadPriceSnapshot_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadPriceSnapshot()
	require.Error(t, err)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewStore(dir, nil, logger)

	require.NoError(t, s.SaveBurnReport(&burn.Report{TotalUI: "0", Burns: []burn.Record{}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "burn.json", entries[0].Name())
}

func TestStoreCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewStore(dir, nil, logger)

	require.NoError(t, s.SaveBurnReport(&burn.Report{TotalUI: "0", Burns: []burn.Record{}}))
	_, err := os.Stat(filepath.Join(dir, "burn.json"))
	require.NoError(t, err)
}

// Package store persists the burn aggregate and price snapshot as flat JSON
// files. Writes go to a sibling temp file and are renamed over the target so
// a concurrently reading front end never observes a partial file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/solburn/burnwatch/service/burn"
	"github.com/solburn/burnwatch/service/metrics"
	"github.com/solburn/burnwatch/service/price"
)

const (
	burnFile  = "burn.json"
	priceFile = "price.json"
)

// Store reads and writes the snapshot files under a data directory.
type Store struct {
	dir     string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write if it does not exist. If m is nil, no metrics are recorded.
func NewStore(dir string, m *metrics.Metrics, logger *slog.Logger) *Store {
	return &Store{
		dir:     dir,
		logger:  logger,
		metrics: m,
	}
}

// BurnPath returns the path of the burn aggregate file.
func (s *Store) BurnPath() string {
	return filepath.Join(s.dir, burnFile)
}

// PricePath returns the path of the price snapshot file.
func (s *Store) PricePath() string {
	return filepath.Join(s.dir, priceFile)
}

// SaveBurnReport writes the burn aggregate atomically.
func (s *Store) SaveBurnReport(report *burn.Report) error {
	return s.writeJSON(s.BurnPath(), burnFile, report)
}

// LoadBurnReport reads the burn aggregate. A missing or empty file is not an
// error: it returns an empty report so the price job can run before the
// first scan has ever completed.
func (s *Store) LoadBurnReport() (*burn.Report, error) {
	report := &burn.Report{TotalUI: "0", Burns: []burn.Record{}}

	data, err := os.ReadFile(s.BurnPath())
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("burn report not found, using empty aggregate", "path", s.BurnPath())
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.BurnPath(), err)
	}
	if len(data) == 0 {
		s.logger.Warn("burn report is empty, using empty aggregate", "path", s.BurnPath())
		return report, nil
	}

	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.BurnPath(), err)
	}
	return report, nil
}

// SavePriceSnapshot writes the price snapshot atomically.
func (s *Store) SavePriceSnapshot(snap *price.Snapshot) error {
	return s.writeJSON(s.PricePath(), priceFile, snap)
}

// LoadPriceSnapshot reads the previously persisted price snapshot. Returns
// fs.ErrNotExist (wrapped) when none exists.
func (s *Store) LoadPriceSnapshot() (*price.Snapshot, error) {
	data, err := os.ReadFile(s.PricePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.PricePath(), err)
	}

	var snap price.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.PricePath(), err)
	}
	return &snap, nil
}

// writeJSON marshals v and atomically replaces path with the result.
func (s *Store) writeJSON(path, label string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", label, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, label+".tmp-*")
	if err != nil {
		s.recordWrite(label, "error")
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.recordWrite(label, "error")
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.recordWrite(label, "error")
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		s.recordWrite(label, "error")
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.recordWrite(label, "success")
	s.logger.Debug("wrote snapshot file", "path", path, "bytes", len(data))
	return nil
}

func (s *Store) recordWrite(label, status string) {
	if s.metrics != nil {
		s.metrics.RecordSnapshotWrite(label, status)
	}
}

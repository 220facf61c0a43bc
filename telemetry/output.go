package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/slime/config"
)

// Run output file names.
const (
	TelemetryFile = "telemetry.csv"
	PerfFile      = "perf.csv"
	BookmarksFile = "bookmarks.csv"
	ConfigFile    = "config.yaml"
)

// CSVLog appends gocsv-tagged rows to one file. The header is written with
// the first row only.
type CSVLog struct {
	file    *os.File
	started bool
}

// CreateCSVLog creates (or truncates) path.
func CreateCSVLog(path string) (*CSVLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	return &CSVLog{file: f}, nil
}

// Append writes rows, which must be a slice of a csv-tagged struct.
func (l *CSVLog) Append(rows interface{}) error {
	if l.started {
		return gocsv.MarshalWithoutHeaders(rows, l.file)
	}
	if err := gocsv.Marshal(rows, l.file); err != nil {
		return err
	}
	l.started = true
	return nil
}

// Close closes the file. Safe on nil.
func (l *CSVLog) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// OutputManager writes one run's telemetry windows, tick timing and
// bookmarks as CSV plus a snapshot of the config in use. A nil manager
// discards everything.
type OutputManager struct {
	dir       string
	telemetry *CSVLog
	perf      *CSVLog
	bookmarks *CSVLog
}

// NewOutputManager creates dir and the run files inside it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, target := range []struct {
		name string
		log  **CSVLog
	}{
		{TelemetryFile, &om.telemetry},
		{PerfFile, &om.perf},
		{BookmarksFile, &om.bookmarks},
	} {
		l, err := CreateCSVLog(filepath.Join(dir, target.name))
		if err != nil {
			om.Close()
			return nil, err
		}
		*target.log = l
	}
	return om, nil
}

// WriteConfig saves cfg next to the CSV files.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends one stats window.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.Append([]WindowStats{stats}); err != nil {
		return fmt.Errorf("append %s: %w", TelemetryFile, err)
	}
	return nil
}

// WritePerf appends the tick timing for the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.Append([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("append %s: %w", PerfFile, err)
	}
	return nil
}

// WriteBookmark appends one detected bookmark.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.Append([]Bookmark{b}); err != nil {
		return fmt.Errorf("append %s: %w", BookmarksFile, err)
	}
	return nil
}

// Close closes every run file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.Close(), om.perf.Close(), om.bookmarks.Close())
}

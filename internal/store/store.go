package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bluegrove/aquamon-core/internal/infrastructure/logging"
)

// File permission constants.
const (
	// dirPermissions is the permission mode for the data directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the data file.
	filePermissions = 0600
)

// Store manages the JSON time-series file with atomic persistence and
// retention pruning.
//
// The store is not safe for concurrent use from multiple processes;
// the atomic-rename discipline protects the file from corruption, not
// from lost updates.
type Store struct {
	path       string
	windowDays int
	logger     *logging.Logger

	// now is the clock source, replaceable in tests.
	now func() time.Time
}

// Config contains store configuration options.
type Config struct {
	// Path is the filesystem path to the JSON data file. The directory
	// is created if it doesn't exist.
	Path string

	// WindowDays is the retention window in days. 0 retains everything.
	WindowDays int
}

// New creates a Store for the given data file.
//
// It ensures the parent directory exists; the data file itself is only
// created by the first successful save.
//
// Parameters:
//   - cfg: Store configuration
//   - logger: Structured logger for warnings on corrupt or failed files
//
// Returns:
//   - *Store: Store ready for use
//   - error: If the data directory cannot be created
func New(cfg Config, logger *logging.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: data file path is required")
	}
	if cfg.WindowDays < 0 {
		return nil, fmt.Errorf("store: window_days must be >= 0, got %d", cfg.WindowDays)
	}
	if logger == nil {
		logger = logging.Default()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		path:       cfg.Path,
		windowDays: cfg.WindowDays,
		logger:     logger.With("component", "store"),
		now:        time.Now,
	}, nil
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// WindowDays returns the configured retention window.
func (s *Store) WindowDays() int {
	return s.windowDays
}

// Load reads the series from disk, sorted ascending by timestamp.
//
// A missing file is an empty series, not an error. Unparseable content
// or a non-array JSON root also loads as empty with a logged warning;
// the file on disk is left untouched.
func (s *Store) Load() Series {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("data file unreadable, treating as empty",
				"path", s.path, "error", err)
		}
		return Series{}
	}

	var series Series
	if err := json.Unmarshal(data, &series); err != nil {
		s.logger.Warn("data file corrupt, treating as empty",
			"path", s.path, "error", err)
		return Series{}
	}

	series.Sort()
	return series
}

// Save sorts the series and replaces the data file atomically.
//
// The series is written to a temporary file in the same directory and
// renamed over the target. On any failure the temporary file is
// removed and the original target is left bit-for-bit unchanged.
//
// Returns:
//   - error: ErrSaveFailed (wrapped with the cause) on failure
func (s *Store) Save(series Series) error {
	series.Sort()

	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding series: %w", ErrSaveFailed, err)
	}

	if err := WriteAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return nil
}

// AppendReading appends one reading as a load → append → prune → save
// unit. A reading without a timestamp is rejected before the file is
// touched.
//
// Returns:
//   - error: ErrMissingTimestamp, or ErrSaveFailed if the save failed
func (s *Store) AppendReading(reading Reading) error {
	if reading.Timestamp == "" {
		return ErrMissingTimestamp
	}

	series := s.Load()
	series = append(series, reading)

	pruned := series.Prune(s.windowDays, s.now())
	if removed := len(series) - len(pruned); removed > 0 {
		s.logger.Info("pruned old readings",
			"removed", removed, "window_days", s.windowDays)
	}

	return s.Save(pruned)
}

// Recent returns the readings from the last N days without persisting
// anything. A zero or negative day count returns the whole series.
func (s *Store) Recent(days int) Series {
	return s.Load().Prune(days, s.now())
}

// Stats describes the data file for reporting.
type Stats struct {
	Count         int    `json:"total_readings"`
	FileExists    bool   `json:"file_exists"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	Oldest        string `json:"oldest_reading,omitempty"`
	Newest        string `json:"newest_reading,omitempty"`
	DaysCovered   int    `json:"days_covered"`
}

// Stats returns a derived read-only report over the data file.
func (s *Store) Stats() Stats {
	series := s.Load()

	stats := Stats{Count: len(series)}

	if info, err := os.Stat(s.path); err == nil {
		stats.FileExists = true
		stats.FileSizeBytes = info.Size()
	}

	if len(series) == 0 {
		return stats
	}

	stats.Oldest = series[0].Timestamp
	stats.Newest = series[len(series)-1].Timestamp

	oldest, errOld := series[0].Time()
	newest, errNew := series[len(series)-1].Time()
	if errOld == nil && errNew == nil {
		stats.DaysCovered = int(newest.Sub(oldest).Hours() / 24)
	}

	return stats
}

// WriteAtomic writes data to path via a temporary file in the same
// directory followed by a rename. On failure the temporary file is
// removed and the target is left unchanged.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, filePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing data file: %w", err)
	}

	return nil
}

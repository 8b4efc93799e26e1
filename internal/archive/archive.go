package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/bluegrove/aquamon-core/internal/infrastructure/config"
	"github.com/bluegrove/aquamon-core/internal/store"
	"github.com/bluegrove/aquamon-core/internal/summary"
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the archive directory.
	dirPermissions = 0750

	// msPerSecond converts seconds to milliseconds for the busy timeout.
	msPerSecond = 1000

	// connectionTimeout bounds the connectivity check at open.
	connectionTimeout = 5 * time.Second
)

// schema is the full archive schema. A single table holds one row per
// mirrored reading; duplicates by timestamp are permitted, matching
// the JSON series.
const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	ph        REAL,
	tds       REAL,
	temp_c    REAL
);
CREATE INDEX IF NOT EXISTS idx_readings_timestamp ON readings(timestamp);
`

// Archive wraps a SQLite connection holding the mirrored series.
type Archive struct {
	db   *sql.DB
	path string
}

// Open creates the archive database, applying the schema if needed.
//
// It performs the following setup:
//  1. Creates the archive directory if it doesn't exist
//  2. Opens the database with WAL mode and a busy timeout
//  3. Verifies the connection with a ping
//  4. Applies the schema
//
// Parameters:
//   - ctx: Context for cancellation of the connectivity check
//   - cfg: Archive configuration
//
// Returns:
//   - *Archive: Connected archive ready for use
//   - error: If connection or schema setup fails
func Open(ctx context.Context, cfg config.ArchiveConfig) (*Archive, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("archive: database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL",
		cfg.Path,
		busyTimeout*msPerSecond,
	)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verifying archive connection: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying archive schema: %w", err)
	}

	return &Archive{db: db, path: cfg.Path}, nil
}

// Record mirrors one reading into the archive. Absent metrics are
// stored as SQL NULL.
func (a *Archive) Record(ctx context.Context, r store.Reading) error {
	if r.Timestamp == "" {
		return store.ErrMissingTimestamp
	}

	_, err := a.db.ExecContext(ctx,
		"INSERT INTO readings (timestamp, ph, tds, temp_c) VALUES (?, ?, ?, ?)",
		r.Timestamp, r.PH, r.TDS, r.TempC,
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}
	return nil
}

// Count returns the number of mirrored readings.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return n, nil
}

// DailySummaries aggregates the last N days per UTC calendar day,
// averaging only present values, newest cutoff first in SQL but
// returned ascending by date.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - days: Window in days; <= 0 aggregates everything
func (a *Archive) DailySummaries(ctx context.Context, days int) ([]summary.DailySummary, error) {
	query := `
		SELECT substr(timestamp, 1, 10) AS day,
		       ROUND(AVG(ph), 2), ROUND(AVG(tds), 2), ROUND(AVG(temp_c), 2), COUNT(*)
		FROM readings`
	args := []any{}
	if days > 0 {
		query += " WHERE timestamp >= ?"
		cutoff := store.FormatTime(time.Now().UTC().AddDate(0, 0, -days))
		args = append(args, cutoff)
	}
	query += " GROUP BY day ORDER BY day ASC"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying daily summaries: %w", err)
	}
	defer rows.Close()

	var out []summary.DailySummary
	for rows.Next() {
		var s summary.DailySummary
		if err := rows.Scan(&s.Date, &s.PH, &s.TDS, &s.TempC, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning daily summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily summaries: %w", err)
	}

	return out, nil
}

// Rebuild replaces the archive contents with the given series in one
// transaction. Used to resynchronise the mirror with the JSON source
// of truth after the archive is first enabled.
func (a *Archive) Rebuild(ctx context.Context, series store.Series) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting rebuild transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM readings"); err != nil {
		return fmt.Errorf("clearing archive: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO readings (timestamp, ph, tds, temp_c) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range series {
		if r.Timestamp == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.Timestamp, r.PH, r.TDS, r.TempC); err != nil {
			return fmt.Errorf("inserting reading: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	return nil
}

// Path returns the archive database path.
func (a *Archive) Path() string {
	return a.path
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

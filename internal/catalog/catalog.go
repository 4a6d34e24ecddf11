// Package catalog records batch reductions in a SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Table names.
const (
	batchesTable   = "skysub_batches"
	exposuresTable = "skysub_exposures"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("catalog: closed")

// Status is the outcome of one exposure.
type Status string

// Exposure outcomes.
const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Batch describes one batch run.
type Batch struct {
	ID        int64
	Started   time.Time
	Ended     *time.Time
	Total     int
	Failed    int
	Params    map[string]any
	Completed bool
}

// Run is the catalog record of one reduced exposure.
type Run struct {
	ID          int64
	BatchID     int64
	Exposure    string
	Started     time.Time
	Duration    time.Duration
	Status      Status
	Slope       float64
	Intercept   float64
	ResidualRMS float64
	TraceRows   int
	Cosmics     int
	Output      string
	Error       string
}

// Catalog owns the database handle.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at path. ":memory:" gives a private
// in-memory catalog.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database at %q: %w", path, err)
	}
	// Limit SQLite to a single open connection to avoid "database is locked"
	// errors and to keep in-memory databases alive.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to catalog %q: %w", path, err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create catalog tables: %w", err)
	}

	return &Catalog{db: db}, nil
}

func createTables(db *sql.DB) error {
	tables := []struct {
		name  string
		query string
	}{
		{batchesTable, `
			CREATE TABLE IF NOT EXISTS ` + batchesTable + ` (
				batch_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				total_exposures INTEGER,
				failed_exposures INTEGER,
				config_params TEXT
			);`},
		{exposuresTable, `
			CREATE TABLE IF NOT EXISTS ` + exposuresTable + ` (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				batch_id INTEGER NOT NULL,
				exposure TEXT NOT NULL,
				start_time TEXT NOT NULL,
				duration_ms INTEGER NOT NULL,
				status TEXT NOT NULL,
				slope REAL NOT NULL,
				intercept REAL NOT NULL,
				residual_rms REAL NOT NULL,
				trace_rows INTEGER NOT NULL,
				cosmics INTEGER NOT NULL,
				output TEXT,
				error TEXT
			);`},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// Close releases the database handle. Further calls fail with ErrClosed.
func (c *Catalog) Close() error {
	if c.db == nil {
		return ErrClosed
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// BeginBatch inserts a new batch and returns its ID.
func (c *Catalog) BeginBatch(ctx context.Context, started time.Time, params map[string]any) (int64, error) {
	if c.db == nil {
		return 0, ErrClosed
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	res, err := c.db.ExecContext(ctx,
		`INSERT INTO `+batchesTable+` (start_time, config_params) VALUES (?, ?)`,
		formatTime(started), string(paramsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}
	return res.LastInsertId()
}

// EndBatch stores the completion time and exposure counts of a batch.
func (c *Catalog) EndBatch(ctx context.Context, batchID int64, ended time.Time, total, failed int) error {
	if c.db == nil {
		return ErrClosed
	}

	res, err := c.db.ExecContext(ctx,
		`UPDATE `+batchesTable+` SET end_time = ?, total_exposures = ?, failed_exposures = ? WHERE batch_id = ?`,
		formatTime(ended), total, failed, batchID)
	if err != nil {
		return fmt.Errorf("failed to update batch %d: %w", batchID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("batch %d: %w", batchID, sql.ErrNoRows)
	}
	return nil
}

// Record stores one exposure outcome and returns its ID.
func (c *Catalog) Record(ctx context.Context, run Run) (int64, error) {
	if c.db == nil {
		return 0, ErrClosed
	}

	res, err := c.db.ExecContext(ctx, `
		INSERT INTO `+exposuresTable+` (
			batch_id, exposure, start_time, duration_ms, status,
			slope, intercept, residual_rms, trace_rows, cosmics, output, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.BatchID, run.Exposure, formatTime(run.Started), run.Duration.Milliseconds(), string(run.Status),
		run.Slope, run.Intercept, run.ResidualRMS, run.TraceRows, run.Cosmics, run.Output, run.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to insert exposure %q: %w", run.Exposure, err)
	}
	return res.LastInsertId()
}

// Runs returns the exposures of a batch in insertion order.
func (c *Catalog) Runs(ctx context.Context, batchID int64) ([]Run, error) {
	if c.db == nil {
		return nil, ErrClosed
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT run_id, batch_id, exposure, start_time, duration_ms, status,
			slope, intercept, residual_rms, trace_rows, cosmics, output, error
		FROM `+exposuresTable+` WHERE batch_id = ? ORDER BY run_id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exposures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			started    string
			durationMs int64
			status     string
			output     sql.NullString
			errText    sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.BatchID, &run.Exposure, &started, &durationMs, &status,
			&run.Slope, &run.Intercept, &run.ResidualRMS, &run.TraceRows, &run.Cosmics, &output, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan exposure: %w", err)
		}

		if run.Started, err = parseTime(started); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.Status = Status(status)
		run.Output = output.String
		run.Error = errText.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Batch returns the batch with the given ID.
func (c *Catalog) Batch(ctx context.Context, batchID int64) (Batch, error) {
	if c.db == nil {
		return Batch{}, ErrClosed
	}

	var (
		b        Batch
		started  string
		ended    sql.NullString
		total    sql.NullInt64
		failed   sql.NullInt64
		paramsJS sql.NullString
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT batch_id, start_time, end_time, total_exposures, failed_exposures, config_params
		FROM `+batchesTable+` WHERE batch_id = ?`, batchID).
		Scan(&b.ID, &started, &ended, &total, &failed, &paramsJS)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to get batch %d: %w", batchID, err)
	}

	if b.Started, err = parseTime(started); err != nil {
		return Batch{}, err
	}
	if ended.Valid {
		t, err := parseTime(ended.String)
		if err != nil {
			return Batch{}, err
		}
		b.Ended = &t
		b.Completed = true
	}
	b.Total = int(total.Int64)
	b.Failed = int(failed.Int64)
	if paramsJS.Valid && paramsJS.String != "" {
		if err := json.Unmarshal([]byte(paramsJS.String), &b.Params); err != nil {
			return Batch{}, fmt.Errorf("failed to decode config params: %w", err)
		}
	}
	return b, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	return t, nil
}

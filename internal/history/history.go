// Package history keeps a SQLite ledger of harness runs so an operator can
// see when the simulation was last exercised and how each run ended.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 2

// timeLayout is fixed width so that text order in started_at is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrSchemaMismatch indicates the ledger was written by an incompatible version.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// Outcome values recorded for a run.
const (
	OutcomeOK              = "ok"
	OutcomePreflightFailed = "preflight_failed"
	OutcomeStartFailed     = "start_failed"
	OutcomeError           = "error"
)

// Run is one ledger row.
type Run struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      time.Time
	FinalState      string
	PreflightPassed bool
	ConfigWritten   bool
	DaemonStarted   bool
	StatusOK        bool
	StopOK          bool
	Interactive     bool
	SnapshotCount   int
	Outcome         string
	Detail          string
}

// Duration is the wall time the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store wraps the ledger database.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record inserts run, replacing any row with the same ID.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("record run: missing id")
	}
	if run.Outcome == "" {
		run.Outcome = OutcomeError
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs (
		id, started_at, finished_at, final_state,
		preflight_passed, config_written, daemon_started, status_ok, stop_ok, interactive,
		snapshot_count, outcome, detail
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.FinalState,
		boolToInt(run.PreflightPassed),
		boolToInt(run.ConfigWritten),
		boolToInt(run.DaemonStarted),
		boolToInt(run.StatusOK),
		boolToInt(run.StopOK),
		boolToInt(run.Interactive),
		run.SnapshotCount,
		run.Outcome,
		run.Detail,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, final_state,
		preflight_passed, config_written, daemon_started, status_ok, stop_ok, interactive,
		snapshot_count, outcome, detail
		FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                                                      Run
		startedAt, finishedAt                                    string
		preflight, written, started, statusOK, stopOK, interactv int
	)
	if err := rows.Scan(
		&run.ID, &startedAt, &finishedAt, &run.FinalState,
		&preflight, &written, &started, &statusOK, &stopOK, &interactv,
		&run.SnapshotCount, &run.Outcome, &run.Detail,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTime(finishedAt)
	run.PreflightPassed = preflight != 0
	run.ConfigWritten = written != 0
	run.DaemonStarted = started != 0
	run.StatusOK = statusOK != 0
	run.StopOK = stopOK != 0
	run.Interactive = interactv != 0
	return run, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

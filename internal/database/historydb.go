package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pinzine/pinzine/internal/pipeline"
)

// HistoryDB stores past build runs in a single SQLite file.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Run is one archived build.
type Run struct {
	// ID is the database row id.
	ID int64

	// PeriodicalID is the build's unique identifier.
	PeriodicalID string

	// Title is the periodical title.
	Title string

	// OutputFile is the .mobi path that was written.
	OutputFile string

	// Included and Skipped are the bookmark outcome counts.
	Included int
	Skipped  int

	// StartedAt is when the run began.
	StartedAt time.Time
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string) (*HistoryDB, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, "pinzine.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; the CLI is single-process so
	// one connection is all we need.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}
	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the schema if it does not exist.
func (h *HistoryDB) createTables() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	periodical_id TEXT NOT NULL,
	title         TEXT NOT NULL,
	output_file   TEXT NOT NULL,
	included      INTEGER NOT NULL,
	skipped       INTEGER NOT NULL,
	started_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS outcomes (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	url    TEXT NOT NULL,
	title  TEXT NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun archives a completed build and its per-bookmark outcomes in
// one transaction.
func (h *HistoryDB) SaveRun(ctx context.Context, result *pipeline.Result) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (periodical_id, title, output_file, included, skipped, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		result.PeriodicalID,
		result.Title,
		result.OutputFile,
		result.Included(),
		len(result.Outcomes)-result.Included(),
		result.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	for _, outcome := range result.Outcomes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, url, title, status, reason) VALUES (?, ?, ?, ?, ?)`,
			runID, outcome.URL, outcome.Title, outcome.Status.String(), outcome.Reason,
		); err != nil {
			return fmt.Errorf("failed to insert outcome: %w", err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns the most recent archived runs, newest first,
// limited to limit rows.
func (h *HistoryDB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, periodical_id, title, output_file, included, skipped, started_at
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.PeriodicalID, &r.Title, &r.OutputFile, &r.Included, &r.Skipped, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the archived bookmark outcomes for a run in
// insertion order.
func (h *HistoryDB) Outcomes(ctx context.Context, runID int64) ([]pipeline.Outcome, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT url, title, status, reason FROM outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []pipeline.Outcome
	for rows.Next() {
		var o pipeline.Outcome
		var status string
		if err := rows.Scan(&o.URL, &o.Title, &status, &o.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Status = parseStatus(status)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// parseStatus maps an archived status string back to its Status.
func parseStatus(s string) pipeline.Status {
	for _, status := range []pipeline.Status{
		pipeline.StatusIncluded,
		pipeline.StatusSkippedByRequest,
		pipeline.StatusSkippedFetchError,
		pipeline.StatusSkippedNotArticle,
	} {
		if status.String() == s {
			return status
		}
	}
	return pipeline.StatusIncluded
}

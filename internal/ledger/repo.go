package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/laguz/internal/models"
)

// ErrNoRuns is returned when the ledger holds no completed run yet.
var ErrNoRuns = errors.New("ledger: no runs recorded")

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Loaded     int
	Unique     int
	Duplicates int
	Written    int
	Skipped    int
	Errors     int
}

// Recorder is the subset of ledger operations the pipeline needs. Consumers
// depend on this interface rather than the concrete *DB to facilitate
// testing.
type Recorder interface {
	BeginRun(id string, startedAt time.Time) error
	FinishRun(sum RunSummary) error
	AddDuplicates(runID string, entries []models.DuplicateEntry) error
	AddDocument(runID string, doc models.OutputDocument, checksum string) error
}

// Verify *DB satisfies Recorder at compile time.
var _ Recorder = (*DB)(nil)

// BeginRun inserts the run row before any processing starts.
func (db *DB) BeginRun(id string, startedAt time.Time) error {
	_, err := db.conn.Exec(`INSERT INTO runs (id, started_at) VALUES (?, ?)`, id, startedAt)
	if err != nil {
		return fmt.Errorf("ledger: begin run: %w", err)
	}
	return nil
}

// FinishRun records the final counters for a run.
func (db *DB) FinishRun(sum RunSummary) error {
	_, err := db.conn.Exec(`
		UPDATE runs SET
			finished_at  = ?,
			loaded       = ?,
			unique_posts = ?,
			duplicates   = ?,
			written      = ?,
			skipped      = ?,
			errors       = ?
		WHERE id = ?
	`, sum.FinishedAt, sum.Loaded, sum.Unique, sum.Duplicates, sum.Written, sum.Skipped, sum.Errors, sum.ID)
	if err != nil {
		return fmt.Errorf("ledger: finish run: %w", err)
	}
	return nil
}

// AddDuplicates bulk-inserts the duplicate ledger of one run in a
// transaction.
func (db *DB) AddDuplicates(runID string, entries []models.DuplicateEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("ledger: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO duplicates (run_id, kind, survivor_id, survivor_date, discarded_id, discarded_date, title, action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("ledger: prepare duplicate insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(runID, string(e.Kind), e.SurvivorID, e.SurvivorDate,
			e.DiscardedID, e.DiscardedDate, e.Title, string(e.Action)); err != nil {
			return fmt.Errorf("ledger: insert duplicate: %w", err)
		}
	}
	return tx.Commit()
}

// AddDocument records one written output document.
func (db *DB) AddDocument(runID string, doc models.OutputDocument, checksum string) error {
	degraded := 0
	if doc.Degraded {
		degraded = 1
	}
	_, err := db.conn.Exec(`
		INSERT INTO documents (run_id, filename, doc_type, checksum, degraded)
		VALUES (?, ?, ?, ?, ?)
	`, runID, doc.Filename, string(doc.Type), checksum, degraded)
	if err != nil {
		return fmt.Errorf("ledger: insert document: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run.
func (db *DB) LastRun() (*RunSummary, error) {
	row := db.conn.QueryRow(`
		SELECT id, started_at, COALESCE(finished_at, started_at),
			loaded, unique_posts, duplicates, written, skipped, errors
		FROM runs ORDER BY started_at DESC LIMIT 1
	`)
	var sum RunSummary
	err := row.Scan(&sum.ID, &sum.StartedAt, &sum.FinishedAt,
		&sum.Loaded, &sum.Unique, &sum.Duplicates, &sum.Written, &sum.Skipped, &sum.Errors)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: last run: %w", err)
	}
	return &sum, nil
}

// RunDuplicates returns the duplicate entries recorded for a run, in insert
// order.
func (db *DB) RunDuplicates(runID string) ([]models.DuplicateEntry, error) {
	rows, err := db.conn.Query(`
		SELECT kind, survivor_id, survivor_date, discarded_id, discarded_date, title, action
		FROM duplicates WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("ledger: run duplicates: %w", err)
	}
	defer rows.Close()

	var out []models.DuplicateEntry
	for rows.Next() {
		var e models.DuplicateEntry
		var kind, action string
		if err := rows.Scan(&kind, &e.SurvivorID, &e.SurvivorDate,
			&e.DiscardedID, &e.DiscardedDate, &e.Title, &action); err != nil {
			return nil, err
		}
		e.Kind = models.DuplicateKind(kind)
		e.Action = models.DuplicateAction(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RunDocuments returns the filenames written by a run, in write order.
func (db *DB) RunDocuments(runID string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT filename FROM documents WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("ledger: run documents: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

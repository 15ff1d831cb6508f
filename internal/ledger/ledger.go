// Package ledger records every run and per-item outcome in a local SQLite
// database. It is history only; cards live in Anki.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sentencemine/internal/db"
	"github.com/alexanderramin/sentencemine/internal/domain"
)

// Run is one invocation of the pipeline.
type Run struct {
	ID         string
	Source     string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt *time.Time
	Total      int
	Completed  int
	Duplicates int
	Skipped    int
	Halted     bool
	HaltReason string
}

// Entry is the terminal outcome of one item within a run.
type Entry struct {
	RunID      string
	ItemID     string
	Source     string
	Word       string
	Outcome    domain.Outcome
	Reason     string
	NoteID     *int64
	RecordedAt time.Time
}

// SQLiteLedger stores runs and outcomes.
type SQLiteLedger struct {
	db  *sql.DB
	uow db.UnitOfWork
	now func() time.Time
}

// New creates a ledger over an opened database (see db.OpenDB).
func New(database *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{
		db:  database,
		uow: db.NewSQLiteUnitOfWork(database),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// StartRun inserts a new run and returns it.
func (l *SQLiteLedger) StartRun(ctx context.Context, source string, dryRun bool) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Source:    source,
		DryRun:    dryRun,
		StartedAt: l.now(),
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, dry_run, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, boolToInt(run.DryRun), run.StartedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// counterColumn maps an outcome onto the runs counter it increments.
func counterColumn(o domain.Outcome) (string, error) {
	switch o {
	case domain.OutcomeCompleted:
		return "completed", nil
	case domain.OutcomeDuplicate:
		return "duplicates", nil
	case domain.OutcomeSkipped:
		return "skipped", nil
	case domain.OutcomeHalted:
		return "", nil
	default:
		return "", fmt.Errorf("unknown outcome %q", o)
	}
}

// Record stores one outcome and bumps the run's counters in the same transaction.
func (l *SQLiteLedger) Record(ctx context.Context, e Entry) error {
	column, err := counterColumn(e.Outcome)
	if err != nil {
		return err
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = l.now()
	}

	return l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO item_outcomes (run_id, item_id, source, word, outcome, reason, note_id, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.RunID, e.ItemID, e.Source, e.Word, string(e.Outcome), e.Reason, nullableInt64(e.NoteID),
			e.RecordedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting outcome: %w", err)
		}

		query := `UPDATE runs SET total = total + 1 WHERE id = ?`
		if column != "" {
			query = fmt.Sprintf(`UPDATE runs SET total = total + 1, %s = %s + 1 WHERE id = ?`, column, column)
		}
		if _, err := tx.ExecContext(ctx, query, e.RunID); err != nil {
			return fmt.Errorf("updating run counters: %w", err)
		}
		return nil
	})
}

// FinishRun stamps the end of a run.
func (l *SQLiteLedger) FinishRun(ctx context.Context, runID string, halted bool, reason string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, halted = ?, halt_reason = ? WHERE id = ?`,
		l.now().Format(time.RFC3339), boolToInt(halted), reason, runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finishing run %s: %w", runID, sql.ErrNoRows)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (l *SQLiteLedger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, source, dry_run, started_at, finished_at, total, completed, duplicates, skipped, halted, halt_reason
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r              Run
			dryRun, halted int
			started        string
			finished       sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Source, &dryRun, &started, &finished,
			&r.Total, &r.Completed, &r.Duplicates, &r.Skipped, &halted, &r.HaltReason); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.DryRun = dryRun != 0
		r.Halted = halted != 0
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt = parseNullableTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FailedItems returns the latest skipped or halted outcomes, newest first.
func (l *SQLiteLedger) FailedItems(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, item_id, source, word, outcome, reason, note_id, recorded_at
		FROM item_outcomes WHERE outcome IN ('skipped', 'halted')
		ORDER BY recorded_at DESC, id DESC LIMIT ?`, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("listing failed items: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			outcome  string
			noteID   sql.NullInt64
			recorded string
		)
		if err := rows.Scan(&e.RunID, &e.ItemID, &e.Source, &e.Word, &outcome, &e.Reason, &noteID, &recorded); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		e.Outcome = domain.Outcome(outcome)
		if noteID.Valid {
			e.NoteID = &noteID.Int64
		}
		e.RecordedAt, _ = time.Parse(time.RFC3339, recorded)
		out = append(out, e)
	}
	return out, rows.Err()
}

// KnownWords returns distinct words that made it into Anki, most recent first.
func (l *SQLiteLedger) KnownWords(ctx context.Context, limit int) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT word FROM item_outcomes
		WHERE outcome IN ('completed', 'duplicate') AND word <> ''
		GROUP BY lower(word) ORDER BY MAX(recorded_at) DESC LIMIT ?`, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("listing known words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scanning word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		dry_run     INTEGER NOT NULL DEFAULT 0,
		started_at  TEXT NOT NULL,
		finished_at TEXT,
		total       INTEGER NOT NULL DEFAULT 0,
		completed   INTEGER NOT NULL DEFAULT 0,
		duplicates  INTEGER NOT NULL DEFAULT 0,
		skipped     INTEGER NOT NULL DEFAULT 0,
		halted      INTEGER NOT NULL DEFAULT 0,
		halt_reason TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS item_outcomes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		item_id     TEXT NOT NULL,
		word        TEXT NOT NULL DEFAULT '',
		outcome     TEXT NOT NULL CHECK (outcome IN ('completed', 'duplicate', 'skipped', 'halted')),
		reason      TEXT NOT NULL DEFAULT '',
		note_id     INTEGER,
		recorded_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON item_outcomes(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_word ON item_outcomes(word)`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_outcome ON item_outcomes(outcome, recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	`ALTER TABLE item_outcomes ADD COLUMN source TEXT NOT NULL DEFAULT ''`,
}

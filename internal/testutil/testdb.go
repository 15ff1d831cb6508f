package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/sentencemine/internal/db"
)

// NewTestDB creates an in-memory ledger database with the schema applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

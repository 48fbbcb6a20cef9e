package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns a fresh in-memory SQLite database with the full schema
// (users, tokens, settings, documents, attachments). It is closed when the
// test finishes.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("creating test database schema: %v", err)
	}

	return database
}

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// SetupTestDB creates an in-memory SQLite database with the current schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// SeedActionLog writes an action log row without going through the
// repository, for histories the application would never save itself.
func SeedActionLog(t *testing.T, db *sql.DB, stackID, store, payload string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO action_logs (stack_id, store, payload, updated_at) VALUES (?, ?, ?, ?)",
		stackID, store, payload, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to seed %s log of stack %s: %v", store, stackID, err)
	}
}

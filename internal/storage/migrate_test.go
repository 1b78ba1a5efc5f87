package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateUpDownUp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up: %v", err)
	}
	// Re-running up against an initialized database must be a no-op.
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('anchors', 'reminders', 'dnd_windows', 'settings', 'kv')`).Scan(&count); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 tables after up, got %d", count)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('anchors', 'reminders', 'dnd_windows', 'settings', 'kv')`).Scan(&count); err != nil {
		t.Fatalf("count tables after down: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 tables after down, got %d", count)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up after down: %v", err)
	}
}

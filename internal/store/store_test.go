package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nvar.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNewStore_InvalidPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "nvar.db"))
	if err == nil {
		t.Error("expected error for a database in a missing directory")
	}
}

func TestNewStore_SchemaObjects(t *testing.T) {
	s := newTestStore(t)

	objects := []struct{ kind, name string }{
		{"table", "probes"},
		{"table", "probe_features"},
		{"index", "idx_probe_features_probe_id"},
		{"index", "idx_probes_started_at"},
	}
	for _, obj := range objects {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type=? AND name=?",
			obj.kind, obj.name,
		).Scan(&name)
		if err != nil {
			t.Errorf("%s %q should exist after migrations: %v", obj.kind, obj.name, err)
		}
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nvar.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, err := s.DB().Exec(`INSERT INTO probes (id, library_path, started_at) VALUES ('keep', 'lib', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatalf("failed to insert probe: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM probes`).Scan(&n); err != nil {
		t.Fatalf("failed to count probes: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 probe after reopen, got %d", n)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "nvar.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("close should not return error: %v", err)
	}

	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	// Check every pooled connection, not only the first one
	for i := 0; i < 3; i++ {
		conn, err := s.DB().Conn(context.Background())
		if err != nil {
			t.Fatalf("failed to get connection: %v", err)
		}
		defer conn.Close()

		var fkEnabled int
		if err := conn.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
			t.Fatalf("failed to check foreign keys pragma: %v", err)
		}
		if fkEnabled != 1 {
			t.Errorf("connection %d: foreign keys should be enabled", i)
		}
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"nvar.db", "nvar.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"file:nvar.db?mode=rwc", "file:nvar.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := dsn(tt.path); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestStore_ConnectionPragmas(t *testing.T) {
	s := newTestStore(t)

	var timeout int
	if err := s.DB().QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("failed to read busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("failed to read journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

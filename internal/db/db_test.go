package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func openMem(t *testing.T) string {
	t.Helper()
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func TestOpen_AppliesMigrations(t *testing.T) {
	d, err := Open(openMem(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	v, err := AppliedVersion(d)
	if err != nil {
		t.Fatalf("applied version: %v", err)
	}
	if v != 1 {
		t.Fatalf("applied version = %d, want 1", v)
	}
	for _, table := range []string{"users", "profiles", "events", "event_volunteers", "volunteer_hours", "attendance_records"} {
		var name string
		if err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	d, err := Open(openMem(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.Exec(`INSERT INTO profiles (user_id) VALUES (999)`); err == nil {
		t.Fatalf("expected foreign key violation for orphan profile")
	}
}

func TestRollbackLast(t *testing.T) {
	d, err := Open(openMem(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	v, err := AppliedVersion(d)
	if err != nil || v != 0 {
		t.Fatalf("after rollback version=%d err=%v", v, err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='users'`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("users table should be gone: n=%d err=%v", n, err)
	}
	// Nothing left to roll back.
	if err := RollbackLast(d); err != nil {
		t.Fatalf("second rollback: %v", err)
	}
}

func TestNewGorm_Ping(t *testing.T) {
	d, err := Open(openMem(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	g, err := NewGorm(d)
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}
	if err := Ping(context.Background(), g); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestWithPragmas(t *testing.T) {
	cases := map[string]string{
		"app.db": "app.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		"file:x?mode=memory&cache=shared": "file:x?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000",
	}
	for in, want := range cases {
		if got := withPragmas(in); got != want {
			t.Errorf("withPragmas(%q) = %q, want %q", in, got, want)
		}
	}
}

package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	for _, table := range []string{"lessons", "audit_entries"} {
		var count int
		if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
	if d.Path() != ":memory:" {
		t.Errorf("unexpected path %q", d.Path())
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clilstudio.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO lessons (id, owner, document, created_at, updated_at) VALUES ('a', 'o', '{}', 'x', 'x')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var title string
	if err := d.QueryRow(`SELECT title FROM lessons WHERE id = 'a'`).Scan(&title); err != nil {
		t.Fatalf("select: %v", err)
	}
	if title != "Untitled Lesson" {
		t.Errorf("expected default title, got %q", title)
	}
}

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	_, err = s.db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, title TEXT, qty INTEGER)`)
	if err != nil {
		t.Fatalf("create table failed: %v", err)
	}

	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	checks := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
	}
	for name, expected := range checks {
		if err := s.verifyPragma(name, expected); err != nil {
			t.Errorf("pragma check failed: %v", err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestInsert_ReturnsRowID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, inserted, err := s.Insert(ctx, "items", map[string]any{"title": "a", "qty": 1}, ConflictNone)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if !inserted {
		t.Fatal("expected inserted=true")
	}
	if id != 1 {
		t.Errorf("id = %d, expected 1", id)
	}
}

func TestInsert_ConflictIgnoreReportsNoRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Insert(ctx, "items", map[string]any{"id": 1, "title": "a"}, ConflictNone); err != nil {
		t.Fatalf("first Insert() failed: %v", err)
	}

	_, inserted, err := s.Insert(ctx, "items", map[string]any{"id": 1, "title": "b"}, ConflictIgnore)
	if err != nil {
		t.Fatalf("OR IGNORE Insert() failed: %v", err)
	}
	if inserted {
		t.Error("expected inserted=false for ignored conflict")
	}
}

func TestInsert_ConflictNoneFailsOnDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Insert(ctx, "items", map[string]any{"id": 1, "title": "a"}, ConflictNone); err != nil {
		t.Fatalf("first Insert() failed: %v", err)
	}

	if _, _, err := s.Insert(ctx, "items", map[string]any{"id": 1, "title": "b"}, ConflictNone); err == nil {
		t.Error("expected constraint error for duplicate primary key")
	}
}

func TestUpdate_ReturnsAffectedCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if _, _, err := s.Insert(ctx, "items", map[string]any{"id": i, "title": "a"}, ConflictNone); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}

	count, err := s.Update(ctx, "items", map[string]any{"title": "b"}, "id <= ?", []any{2}, ConflictNone)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("affected = %d, expected 2", count)
	}
}

func TestUpdate_ZeroMatchesIsNotAnError(t *testing.T) {
	s := openTestStore(t)

	count, err := s.Update(context.Background(), "items", map[string]any{"title": "b"}, "id = ?", []any{99}, ConflictNone)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("affected = %d, expected 0", count)
	}
}

func TestDelete_ReturnsAffectedCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if _, _, err := s.Insert(ctx, "items", map[string]any{"id": i, "title": "a"}, ConflictNone); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}

	count, err := s.Delete(ctx, "items", "id > ?", []any{1})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("affected = %d, expected 2", count)
	}
}

func TestSnapshot_SchemaOrderAndIdentity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Insert(ctx, "items", map[string]any{"id": 7, "title": "a", "qty": 3}, ConflictNone); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	images, err := s.Snapshot(ctx, "items", "id = ?", []any{7})
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, expected 1", len(images))
	}

	img := images[0]
	if img.Identity != "7" {
		t.Errorf("identity = %q, expected \"7\"", img.Identity)
	}

	// Declared column order, not insertion order.
	expected := []string{"id", "title", "qty"}
	if len(img.Columns) != len(expected) {
		t.Fatalf("columns = %v, expected %v", img.Columns, expected)
	}
	for i, col := range expected {
		if img.Columns[i] != col {
			t.Errorf("columns[%d] = %q, expected %q", i, img.Columns[i], col)
		}
	}

	if v, ok := img.Value("title"); !ok || v.String != "a" {
		t.Errorf("title = %v, expected \"a\"", v)
	}
}

func TestSnapshot_PreservesNull(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Insert(ctx, "items", map[string]any{"id": 1, "title": nil}, ConflictNone); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	images, err := s.Snapshot(ctx, "items", "", nil)
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, expected 1", len(images))
	}

	v, ok := images[0].Value("title")
	if !ok {
		t.Fatal("title column missing from image")
	}
	if v.Valid {
		t.Errorf("title = %q, expected NULL", v.String)
	}
}

func TestSnapshot_ZeroMatchesReturnsEmpty(t *testing.T) {
	s := openTestStore(t)

	images, err := s.Snapshot(context.Background(), "items", "id = ?", []any{42})
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images, expected 0", len(images))
	}
}

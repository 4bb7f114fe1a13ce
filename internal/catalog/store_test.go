package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testStore returns a fresh in-memory store.
func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	id1, err := s.Insert(ctx, "alpha", "first")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id2, err := s.Insert(ctx, "beta", "second")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", id1, id2)
	}
}

func TestInsertDefaultsToEmptySource(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	id, err := s.Insert(ctx, "alpha", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	src, err := s.ReadSource(ctx, id)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if src != "" {
		t.Errorf("source = %q, want empty", src)
	}
}

func TestUpdateField(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	id, err := s.Insert(ctx, "alpha", "desc")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	cases := []struct {
		field Field
		value string
	}{
		{FieldName, "omega"},
		{FieldDescription, "re-described"},
		{FieldSource, "(+ 1 2)"},
	}
	for _, tc := range cases {
		if err := s.UpdateField(ctx, id, tc.field, tc.value); err != nil {
			t.Fatalf("UpdateField(%s): %v", tc.field, err)
		}
	}

	objs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}
	o := objs[0]
	if o.Name != "omega" || o.Description != "re-described" || o.Source != "(+ 1 2)" {
		t.Errorf("object = %+v", o)
	}
}

func TestUpdateFieldMissingID(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	err := s.UpdateField(ctx, 99, FieldName, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateFieldRejectsUnknownColumn(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.UpdateField(ctx, 1, Field("id"), "7"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestFindIDByName(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	want, err := s.Insert(ctx, "alpha", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.FindIDByName(ctx, "alpha")
	if err != nil {
		t.Fatalf("FindIDByName: %v", err)
	}
	if got != want {
		t.Errorf("id = %d, want %d", got, want)
	}

	_, err = s.FindIDByName(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindIDByNameDuplicatesPickLowestID(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	first, err := s.Insert(ctx, "twin", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(ctx, "twin", ""); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.FindIDByName(ctx, "twin")
	if err != nil {
		t.Fatalf("FindIDByName: %v", err)
	}
	if got != first {
		t.Errorf("id = %d, want %d", got, first)
	}
}

func TestReadSourceMissingID(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	_, err := s.ReadSource(ctx, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNames(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	for _, n := range []string{"alpha", "beta"} {
		if _, err := s.Insert(ctx, n, ""); err != nil {
			t.Fatalf("insert %s: %v", n, err)
		}
	}
	names, err := s.ListNames(ctx)
	if err != nil {
		t.Fatalf("ListNames: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2", len(names))
	}
	for _, n := range []string{"alpha", "beta"} {
		if _, ok := names[n]; !ok {
			t.Errorf("names missing %q", n)
		}
	}
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	id, err := s.Insert(ctx, "alpha", "a sketch")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.UpdateField(ctx, id, FieldSource, "(circle 10)"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.db")
	if err := s.BackupTo(ctx, path); err != nil {
		t.Fatalf("BackupTo: %v", err)
	}

	// the live store is untouched
	if _, err := s.FindIDByName(ctx, "alpha"); err != nil {
		t.Fatalf("live store lost rows: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.FindIDByName(ctx, "alpha")
	if err != nil {
		t.Fatalf("FindIDByName after reopen: %v", err)
	}
	if got != id {
		t.Errorf("id = %d, want %d", got, id)
	}
	src, err := reopened.ReadSource(ctx, got)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if src != "(circle 10)" {
		t.Errorf("source = %q, want %q", src, "(circle 10)")
	}
	objs, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 || objs[0].Description != "a sketch" {
		t.Errorf("objects = %+v", objs)
	}
}

func TestBackupOverwritesExistingFile(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if _, err := s.Insert(ctx, "alpha", ""); err != nil {
		t.Fatalf("insert: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.db")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := s.BackupTo(ctx, path); err != nil {
		t.Fatalf("BackupTo over existing: %v", err)
	}
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.FindIDByName(ctx, "alpha"); err != nil {
		t.Errorf("backup content missing: %v", err)
	}
}

func TestBackupFailureKeepsExistingTarget(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if _, err := s.Insert(ctx, "alpha", ""); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.db")
	if err := s.BackupTo(ctx, path); err != nil {
		t.Fatalf("BackupTo: %v", err)
	}

	broken := testStore(t)
	broken.Close()
	if err := broken.BackupTo(ctx, path); err == nil {
		t.Fatal("expected error backing up from a closed store")
	}

	// the good backup survives a failed overwrite
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open after failed backup: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.FindIDByName(ctx, "alpha"); err != nil {
		t.Errorf("previous backup content lost: %v", err)
	}

	// no temp-file litter either
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "catalog.db" {
		t.Errorf("directory entries = %v, want only catalog.db", entries)
	}
}

func TestOpenIsIdempotentOnInitializedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := first.Insert(ctx, "alpha", ""); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()
	if _, err := second.FindIDByName(ctx, "alpha"); err != nil {
		t.Errorf("rows lost across reopen: %v", err)
	}
}

func TestOpenRejectsNonDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-db")
	if err := os.WriteFile(path, []byte("this is not sqlite at all, not even close"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if s, err := Open(path); err == nil {
		s.Close()
		t.Error("expected error opening a non-database file")
	}
}

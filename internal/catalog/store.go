package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the persistence layer for Objects. It wraps a single sqlite
// handle, either file-backed or in-memory, with the schema already applied.
type Store struct {
	db *sql.DB
}

// Open loads an existing catalog file (creating it if absent) and applies
// the schema. Fails on I/O errors or when the file is not a sqlite database.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	return open(dsn)
}

// NewInMemory produces a fresh, empty, schema-initialized scratch store.
func NewInMemory() (*Store, error) {
	return open(":memory:")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// An in-memory database lives on one connection; a second connection
	// would see a different (empty) database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BackupTo durably copies the full current contents to path, replacing any
// file already there. The copy lands in a temp file in the same directory
// and is renamed over the target, so a failed copy cannot destroy a
// previous save. The live store is left untouched.
func (s *Store) BackupTo(ctx context.Context, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("backup to %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	// VACUUM INTO refuses to write over an existing file, even the empty
	// one CreateTemp just reserved.
	if err := os.Remove(tmpPath); err != nil {
		return fmt.Errorf("backup to %s: %w", path, err)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("backup to %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("backup to %s: %w", path, err)
	}
	return nil
}

// Insert appends a new Object with empty source and returns its id.
func (s *Store) Insert(ctx context.Context, name, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO objects(name, description) VALUES(?, ?)`, name, description)
	if err != nil {
		return 0, fmt.Errorf("insert object: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert object: %w", err)
	}
	return id, nil
}

// UpdateField sets a single column of one Object.
func (s *Store) UpdateField(ctx context.Context, id int64, field Field, value string) error {
	switch field {
	case FieldName, FieldDescription, FieldSource:
	default:
		return fmt.Errorf("update object %d: unknown field %q", id, field)
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE objects SET %s = ? WHERE id = ?`, field), value, id)
	if err != nil {
		return fmt.Errorf("update object %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update object %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update object %d: %w", id, ErrNotFound)
	}
	return nil
}

// FindIDByName resolves an exact name to an id. When several objects share
// the name, the lowest id wins.
func (s *Store) FindIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM objects WHERE name = ? ORDER BY id LIMIT 1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("find %q: %w", name, err)
	}
	return id, nil
}

// ReadSource returns the source text of one Object.
func (s *Store) ReadSource(ctx context.Context, id int64) (string, error) {
	var src sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT source FROM objects WHERE id = ?`, id).Scan(&src)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read source %d: %w", id, err)
	}
	return src.String, nil
}

// ListNames returns the set of names currently in the catalog.
func (s *Store) ListNames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM objects`)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names[n] = struct{}{}
	}
	return names, rows.Err()
}

// List returns all Objects in id order.
func (s *Store) List(ctx context.Context) ([]Object, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, source FROM objects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	var out []Object
	for rows.Next() {
		var o Object
		var desc, src sql.NullString
		if err := rows.Scan(&o.ID, &o.Name, &desc, &src); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		o.Description = desc.String
		o.Source = src.String
		out = append(out, o)
	}
	return out, rows.Err()
}

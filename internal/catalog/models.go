package catalog

import "errors"

// Object is one catalog entry: a named Scheme sketch and its metadata.
// ID is assigned by the store on insert and never changes afterwards.
type Object struct {
	ID          int64
	Name        string
	Description string
	Source      string
}

// Field names a single mutable column of an Object.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldSource      Field = "source"
)

// ErrNotFound is returned when a lookup by id or name matches no row.
var ErrNotFound = errors.New("not found")

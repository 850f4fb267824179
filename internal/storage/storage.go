package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record conflicts with an existing one")
	ErrUnauthorized = errors.New("not authorized")
	ErrUnavailable  = errors.New("store unavailable")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)

// Row is a single record as the remote store returns it: JSON shaped values
// (strings, float64 numbers, bools, []any, map[string]any, nil).
type Row map[string]any

// Search matches rows where any of Columns contains Term, case-insensitive.
type Search struct {
	Term    string
	Columns []string
}

type Query struct {
	Table   string
	Eq      map[string]any
	Search  *Search
	Overlap map[string][]string
	// OrderBy is always applied descending, with id descending as tie-break.
	OrderBy string
	Limit   uint64
	Offset  uint64
}

// Store is the remote table store: authenticated CRUD over named collections.
type Store interface {
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Select(ctx context.Context, q Query) ([]Row, error)
	Count(ctx context.Context, q Query) (int, error)
	Update(ctx context.Context, table, id string, row Row) (Row, error)
	Delete(ctx context.Context, table, id string) error
}

// ObjectStore keeps uploaded files. Deleting a missing object is not an error.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

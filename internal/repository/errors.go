package repository

import (
	"errors"
	"fmt"
	"strings"

	"devmart/internal/lib/retry"
	"devmart/internal/lib/validate"
	"devmart/internal/storage"
)

type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindTransient    Kind = "transient"
	KindShape        Kind = "shape"
)

// Error is the only error shape repositories return. Callers never see store
// specific errors directly, only through Unwrap.
type Error struct {
	Op     string
	Entity string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("repository.%s.%s: %s: %v", e.Entity, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ShapeError reports a stored row that could not be narrowed into a record.
type ShapeError struct {
	Problems []string
}

func (e *ShapeError) Error() string {
	return "unexpected row shape: " + strings.Join(e.Problems, "; ")
}

// KindOf returns the kind of a repository error, or classifies a raw error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr.Kind
	}

	var validationErr *validate.Error
	var shapeErr *ShapeError

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &shapeErr):
		return KindShape
	case errors.Is(err, storage.ErrNotFound):
		return KindNotFound
	case errors.Is(err, storage.ErrConflict):
		return KindConflict
	case errors.Is(err, storage.ErrUnauthorized):
		return KindUnauthorized
	case retry.IsTransient(err):
		return KindTransient
	default:
		return KindUnknown
	}
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func wrap(entity, op string, err error) error {
	if err == nil {
		return nil
	}

	var repoErr *Error
	if errors.As(err, &repoErr) {
		return err
	}

	return &Error{Op: op, Entity: entity, Kind: KindOf(err), Err: err}
}

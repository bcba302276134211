package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel behind every NotFoundError, so callers can
// test with errors.Is without caring which entity was missing.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a reference to an identifier with no row behind it.
// Recoverable: the caller decides what to do with it.
type NotFoundError struct {
	Kind string // "layer", "group", "style preset"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// SchemaError means the migration script could not be applied. Fatal: the
// store cannot start.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return fmt.Sprintf("schema: %v", e.Err) }
func (e *SchemaError) Unwrap() error { return e.Err }

// SerializationError means a structured-document field could not be
// encoded or decoded. The surrounding operation is aborted before any
// write, so no partial state is left behind.
type SerializationError struct {
	Field string
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s: %v", e.Field, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ConstraintError wraps an unexpected database-level rejection (type
// mismatch, foreign key violation). Surfaced verbatim.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *ConstraintError) Unwrap() error { return e.Err }

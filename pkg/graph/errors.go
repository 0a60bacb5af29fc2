package graph

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound is returned when a node does not exist
	ErrNotFound = errors.New("node not found")

	// ErrStoreClosed is returned when trying to use a closed store
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidRelation is returned when an edge relation name contains
	// characters other than alphanumerics and underscores
	ErrInvalidRelation = errors.New("invalid relation name")
)

// NotFoundError reports a missing node and carries the requested id so
// callers can tell "doesn't exist" from "couldn't check".
type NotFoundError struct {
	ID string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node not found: %s", e.ID)
}

// Is matches the ErrNotFound sentinel
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps backend failures with operation context. Every error
// originating from the storage engine crosses the contract boundary wrapped
// in one of these.
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("graphstore: %v", e.Err)
	}
	return fmt.Sprintf("graphstore: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

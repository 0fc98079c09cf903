package entities

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record is absent from the store or catalog.
// Absence is a normal outcome, e.g. a stale reference.
var ErrNotFound = errors.New("not found")

// ErrTypeMismatch is returned when an item exists but its type belongs to a
// different group than the one requested. It matches ErrNotFound.
var ErrTypeMismatch = fmt.Errorf("type group mismatch: %w", ErrNotFound)

// ErrMissingDependency is returned when a type referenced by a specialized
// record cannot be resolved. It matches ErrNotFound.
var ErrMissingDependency = fmt.Errorf("missing dependency: %w", ErrNotFound)

// ErrConsistency matches every *ConsistencyError.
// It never matches ErrNotFound.
var ErrConsistency = errors.New("store consistency violation")

// ConsistencyError reports two independently stored records that disagree.
// This should never happen in a healthy store.
type ConsistencyError struct {
	ItemID   uint32
	Field    string
	Stored   uint32
	Resolved uint32
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("item %d: %s: stored %d, resolved %d: %s",
		e.ItemID, e.Field, e.Stored, e.Resolved, ErrConsistency.Error())
}

// Is reports whether target is ErrConsistency.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

// Package apperror holds the error categories shared by every domain.
// Domain packages declare their own sentinels and wrap one of these so
// callers can branch with errors.Is without knowing the domain.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an unknown id or an empty selection.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidState marks an operation not allowed in the entity's current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict is returned when an optimistic version check fails.
	ErrConflict = errors.New("concurrent modification detected")

	// ErrPersistence wraps failures of the underlying store.
	ErrPersistence = errors.New("persistence error")

	// ErrConsistency marks a coupled write (employee salary) that failed
	// after the triggering row was staged. The surrounding transaction is
	// rolled back, so nothing partial is committed.
	ErrConsistency = errors.New("coupled write failed")
)

// ConsistencyError names the entity whose coupled write failed.
type ConsistencyError struct {
	Entity string
	ID     string
	Err    error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("coupled write to %s %s failed: %v", e.Entity, e.ID, e.Err)
}

func (e *ConsistencyError) Unwrap() []error {
	return []error{ErrConsistency, e.Err}
}

// NewConsistencyError wraps err as a ConsistencyError for the given entity.
func NewConsistencyError(entity, id string, err error) error {
	return &ConsistencyError{Entity: entity, ID: id, Err: err}
}

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package engine

import (
	"errors"
	"fmt"
)

// PersistenceWarning reports a failed write to the backing store.
//
// It is never returned from a mutation: the in-memory change stands and the
// session continues without durability until a later save succeeds.
type PersistenceWarning struct {
	// Op is the operation whose commit failed to persist.
	Op string

	// Err is the underlying repository error.
	Err error
}

// Error implements the error interface.
func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("PERSISTENCE_WARNING: %s: changes kept in memory only: %v", w.Op, w.Err)
}

// Unwrap returns the repository error.
func (w *PersistenceWarning) Unwrap() error {
	return w.Err
}

// IsPersistenceWarning returns true if err is or wraps a PersistenceWarning.
func IsPersistenceWarning(err error) bool {
	var pw *PersistenceWarning
	return errors.As(err, &pw)
}

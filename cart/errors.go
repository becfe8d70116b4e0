package cart

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity rejects an add with a quantity below 1. The optimistic
// snapshot is not mutated.
var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

// ErrLineNotFound is returned by a Submitter when the persisted store does
// not know the targeted line id (e.g. a stale id after a concurrent clear).
var ErrLineNotFound = errors.New("cart: line not found")

// PersistenceError reports a failed background submission. The optimistic
// snapshot is never rolled back automatically; callers decide whether to
// Reconcile from a fresh server load or offer a retry.
type PersistenceError struct {
	Op     string
	LineID string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.LineID != "" {
		return fmt.Sprintf("cart: %s for line %s failed: %v", e.Op, e.LineID, e.Err)
	}
	return fmt.Sprintf("cart: %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the failure was a stale line id, which is
// advisory rather than fatal.
func (e *PersistenceError) NotFound() bool {
	return errors.Is(e.Err, ErrLineNotFound)
}

// Package storage holds the error shared by every store adapter.
package storage

import (
	"errors"
	"fmt"
)

// ErrPersistence marks a failed store read or write.
var ErrPersistence = errors.New("persistence failure")

// Wrap tags err as a persistence failure for op. Sentinel domain errors that
// callers already match on (not found and the like) should not be wrapped.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

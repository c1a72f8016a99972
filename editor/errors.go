package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a position outside the registry's live range.
	ErrNotFound = errors.New("no session at position")

	// ErrOrderMismatch reports a reorder list that is not a permutation of
	// the live sessions.
	ErrOrderMismatch = errors.New("tab order does not match open sessions")

	// ErrPathOpen reports a save target already bound to another session.
	ErrPathOpen = errors.New("file is open in another tab")
)

// IndexError describes an out-of-range position. It matches ErrNotFound
// with errors.Is.
type IndexError struct {
	Position int
	Len      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("position %d out of range [0,%d)", e.Position, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrNotFound
}

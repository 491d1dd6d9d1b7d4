package pickup

import (
	"errors"
	"fmt"
)

var (
	ErrZoneUnavailable = errors.New("zone unavailable")
	ErrAlreadyLocked   = errors.New("zone already locked for the semester")
	ErrInvalidStatus   = errors.New("invalid pickup status")
	ErrInvalidMode     = errors.New("invalid pickup mode")
)

// PersistenceError reports a snapshot write or read that failed. For writes
// the in-memory mutation has already been applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks failures of the underlying data store (timeouts, connection errors).
// It is the only condition the core propagates as an error.
var ErrUnavailable = errors.New("data store unavailable")

// Error wraps a driver error with the failed operation
type Error struct {
	Op  string
	Err error
}

// Unavailable wraps err as a data-store failure of op.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnavailable) hold for every *Error.
func (e *Error) Is(target error) bool { return target == ErrUnavailable }

// IsUnavailable reports whether err is a data-store failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

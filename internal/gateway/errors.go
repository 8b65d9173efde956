package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a looked-up issue or comment does not exist.
var ErrNotFound = errors.New("not found")

// OperationFailed wraps a transport failure against the remote tracker. It
// carries the HTTP status code so the per-event boundary can log it.
type OperationFailed struct {
	// Op names the failed gateway operation.
	Op string

	// StatusCode is the HTTP status of the failed call, or zero when the
	// request never completed.
	StatusCode int

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *OperationFailed) Error() string {
	return fmt.Sprintf("%s failed (status %d): %v", e.Op, e.StatusCode,
		e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *OperationFailed) Unwrap() error {
	return e.Err
}

// Package apperr defines the error taxonomy shared by the data layer.
//
// Callers classify failures with errors.Is against the sentinels below;
// everything else is carried as context on the wrapped error.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks malformed or missing required input,
	// detected before any store call is made.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a document or path that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStore marks a failure inside the backing store itself.
	ErrStore = errors.New("store failure")
)

func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Storef(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, fmt.Sprintf(format, args...), err)
}

// FromStore maps a store error for propagation: NotFound passes through so
// callers can still classify it, anything else is wrapped as a store failure.
func FromStore(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return Storef(err, format, args...)
}

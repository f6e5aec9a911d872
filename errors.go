package svckit

import (
	"errors"
	"fmt"
)

// Error taxonomy for administrative operations. Callers match with
// errors.Is; none of these are retried by the library.
var (
	// ErrManagerUnavailable means the service manager could not be
	// reached at all (SCM connection failed, systemctl not invocable).
	ErrManagerUnavailable = errors.New("service manager unavailable")

	// ErrRejected means the manager refused the operation. The wrapped
	// cause carries the raw platform error where one exists.
	ErrRejected = errors.New("operation rejected by service manager")

	// ErrIO means a local file operation failed (e.g. unit file write).
	ErrIO = errors.New("local i/o failure")

	// ErrNotInstalled means the operation requires an installed service.
	ErrNotInstalled = errors.New("service not installed")

	// ErrAlreadyInstalled means the service definition already exists.
	ErrAlreadyInstalled = errors.New("service already installed")

	// ErrNotImplemented is returned by the control handler for signals
	// the service does not accept.
	ErrNotImplemented = errors.New("control not implemented")
)

func wrapErr(op string, sentinel, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, sentinel)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(sentinel, cause))
}

//go:build !linux && !windows

package svckit

import "os"

func defaultController(s *Service) Controller {
	return NewMemoryController()
}

func dispatchPlatform[T any](s *Service, body hostedBody[T]) error {
	return runStandalone[T](s, body)
}

// Interactive reports whether the process appears to be attached to a
// terminal.
func Interactive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

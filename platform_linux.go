//go:build linux

package svckit

import "os"

func defaultController(s *Service) Controller {
	return NewSystemdController(WithSystemdLogger(s.log))
}

// dispatchPlatform runs the body as a plain foreground process: a
// systemd service of Type=simple is just that, with SIGTERM as the stop
// control.
func dispatchPlatform[T any](s *Service, body hostedBody[T]) error {
	return runStandalone[T](s, body)
}

// Interactive reports whether the process appears to be attached to a
// terminal rather than running under the service manager. Under
// systemd, stdin is not a character device.
func Interactive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

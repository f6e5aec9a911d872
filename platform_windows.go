//go:build windows

package svckit

import "golang.org/x/sys/windows/svc"

func defaultController(s *Service) Controller {
	return NewWindowsController(s.log)
}

// Interactive reports whether the process is running outside the
// service control manager.
func Interactive() bool {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return true
	}
	return !isService
}

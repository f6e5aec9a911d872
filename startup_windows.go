//go:build windows

package svckit

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// ReportStartupError writes a startup failure to the Windows event log
// so "net start" and Event Viewer show the real message even when the
// service died before its logger came up.
func ReportStartupError(name string, err error) {
	// Registering the source again is harmless if it already exists.
	_ = eventlog.InstallAsEventCreate(name, eventlog.Error|eventlog.Warning|eventlog.Info)

	elog, openErr := eventlog.Open(name)
	if openErr != nil {
		return
	}
	defer elog.Close()

	elog.Error(1, fmt.Sprintf("Failed to start: %v", err))
}

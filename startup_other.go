//go:build !windows

package svckit

// ReportStartupError is a no-op outside Windows; there is no event log
// to write to, and the startup error file covers the same need.
func ReportStartupError(name string, err error) {}

// Package svckit registers a program as an OS-managed background
// service (a Windows service or a Linux systemd unit), hosts the
// service body, and relays control signals from the service manager to
// the body as a typed event stream.
//
// A Service binds a name to a platform Controller for administrative
// operations (Exists, Create, Start, Stop, Delete). Dispatch and
// DispatchTask run the service body under the platform's control
// dispatcher, advancing the reported status through
// StartPending → Running → StopPending → Stopped. When the process is
// not running under a service manager the same body runs in the
// foreground with signal-driven shutdown.
package svckit

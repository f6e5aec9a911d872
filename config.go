package svckit

// StartType controls when the manager launches the service.
type StartType int

const (
	// StartAutomatic starts the service at boot.
	StartAutomatic StartType = iota
	// StartManual starts the service only on request.
	StartManual
	// StartDisabled prevents the service from starting.
	StartDisabled
)

// ErrorControl is the Windows error-control policy applied when the
// service fails to start. Ignored by the systemd backend.
type ErrorControl int

const (
	ErrorControlNormal ErrorControl = iota
	ErrorControlIgnore
	ErrorControlSevere
	ErrorControlCritical
)

// Config describes a service installation. It is built once by the
// caller and consumed by Create.
type Config struct {
	// Description is the human-readable description shown by the
	// manager.
	Description string

	// DisplayName is the name presented to the user (Windows). Falls
	// back to the service name when empty.
	DisplayName string

	// Binary is the path to the service executable.
	Binary string

	// Arguments are passed to the binary on every start.
	Arguments []string

	// WorkingDir is the service's working/config directory.
	WorkingDir string

	// Username is the account the service runs as. Empty means the
	// platform default (LocalSystem / root).
	Username string

	// Password for Username. Windows only.
	Password string

	// StartType defaults to StartAutomatic.
	StartType StartType

	// ErrorControl defaults to ErrorControlNormal.
	ErrorControl ErrorControl

	// LoadOrderGroup is the Windows load-ordering group, if any.
	LoadOrderGroup string

	// Dependencies lists services that must start before this one.
	// Windows only.
	Dependencies []string
}

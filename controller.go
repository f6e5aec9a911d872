package svckit

import (
	"fmt"
	"sync"
)

// Controller performs administrative operations against the platform's
// service registry. Operations are independent per call; the only
// shared state across calls is the service identity. Implementations:
// the systemd backend, the Windows SCM backend, and the in-memory
// backend used on unsupported platforms and in tests.
type Controller interface {
	// Exists reports whether the registry has an entry for name. It
	// never mutates state.
	Exists(name string) (bool, error)

	// Create installs the service definition. Creating a service that
	// already exists is rejected, never silently overwritten.
	Create(name string, cfg Config) error

	// Start requests a start and waits until the transition settles.
	Start(name string) error

	// Stop requests a stop and waits until the transition settles.
	Stop(name string) error

	// Delete removes the service registration. Deleting a service that
	// is not installed is a reported error.
	Delete(name string) error
}

// memState tracks one registered service in the memory controller.
type memState struct {
	cfg     Config
	running bool
}

// MemoryController is an in-process Controller keeping registrations in
// a map. It backs platforms without a service manager and lets tests
// run the full administrative round trip without touching the system.
type MemoryController struct {
	mu       sync.Mutex
	services map[string]*memState
}

// NewMemoryController creates an empty in-memory controller.
func NewMemoryController() *MemoryController {
	return &MemoryController{services: make(map[string]*memState)}
}

// Exists reports whether name has been created.
func (m *MemoryController) Exists(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.services[name]
	return ok, nil
}

// Create registers the service. A second Create for the same name is
// rejected.
func (m *MemoryController) Create(name string, cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[name]; ok {
		return wrapErr(fmt.Sprintf("create service %q", name), ErrRejected, ErrAlreadyInstalled)
	}
	m.services[name] = &memState{cfg: cfg}
	return nil
}

// Start marks the service running.
func (m *MemoryController) Start(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.services[name]
	if !ok {
		return wrapErr(fmt.Sprintf("start service %q", name), ErrNotInstalled, nil)
	}
	st.running = true
	return nil
}

// Stop marks the service stopped.
func (m *MemoryController) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.services[name]
	if !ok {
		return wrapErr(fmt.Sprintf("stop service %q", name), ErrNotInstalled, nil)
	}
	st.running = false
	return nil
}

// Delete removes the registration. Deleting an unknown service is an
// error; callers wanting idempotent delete check Exists first.
func (m *MemoryController) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[name]; !ok {
		return wrapErr(fmt.Sprintf("delete service %q", name), ErrNotInstalled, nil)
	}
	delete(m.services, name)
	return nil
}

// Running reports whether the service is marked running. Test hook; the
// real backends expose this through the manager's own status queries.
func (m *MemoryController) Running(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.services[name]
	return ok && st.running
}

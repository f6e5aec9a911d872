//go:build windows

package svckit

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"
)

// WindowsController manages services through the service control
// manager. Every operation opens its own manager connection; holding
// one across calls would pin an SCM handle for the controller's whole
// lifetime.
type WindowsController struct {
	log       zerolog.Logger
	pollEvery time.Duration
	settle    time.Duration
}

// NewWindowsController creates a service control manager backed
// controller.
func NewWindowsController(log zerolog.Logger) *WindowsController {
	return &WindowsController{
		log:       log,
		pollEvery: 250 * time.Millisecond,
		settle:    30 * time.Second,
	}
}

func (w *WindowsController) connect() (*mgr.Mgr, error) {
	m, err := mgr.Connect()
	if err != nil {
		return nil, wrapErr("connect to service control manager", ErrManagerUnavailable, err)
	}
	return m, nil
}

// Exists probes the service by opening it. An open failure on a
// reachable manager means the service is not installed.
func (w *WindowsController) Exists(name string) (bool, error) {
	m, err := w.connect()
	if err != nil {
		return false, err
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return false, nil
	}
	s.Close()
	return true, nil
}

// Create registers the service and its event log source. If the source
// cannot be registered the service registration is rolled back so a
// failed create leaves nothing behind.
func (w *WindowsController) Create(name string, cfg Config) error {
	m, err := w.connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	if existing, err := m.OpenService(name); err == nil {
		existing.Close()
		return wrapErr(fmt.Sprintf("create service %q", name), ErrRejected, ErrAlreadyInstalled)
	}

	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = name
	}
	mcfg := mgr.Config{
		DisplayName:      displayName,
		Description:      cfg.Description,
		StartType:        scmStartType(cfg.StartType),
		ErrorControl:     scmErrorControl(cfg.ErrorControl),
		LoadOrderGroup:   cfg.LoadOrderGroup,
		Dependencies:     cfg.Dependencies,
		ServiceStartName: cfg.Username,
		Password:         cfg.Password,
	}

	s, err := m.CreateService(name, cfg.Binary, mcfg, cfg.Arguments...)
	if err != nil {
		return wrapErr(fmt.Sprintf("create service %q", name), ErrRejected, err)
	}
	defer s.Close()

	if err := eventlog.InstallAsEventCreate(name, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		s.Delete()
		return wrapErr(fmt.Sprintf("register event log source for %q", name), ErrRejected, err)
	}
	w.log.Info().Str("service", name).Msg("Service registered")
	return nil
}

// Start launches the service and polls until it leaves StartPending.
func (w *WindowsController) Start(name string) error {
	m, err := w.connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return wrapErr(fmt.Sprintf("start service %q", name), ErrNotInstalled, err)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		return wrapErr(fmt.Sprintf("start service %q", name), ErrRejected, err)
	}
	state, err := w.waitState(s, name, svc.StartPending)
	if err != nil {
		return err
	}
	if state != svc.Running {
		return wrapErr(fmt.Sprintf("start service %q: state %d", name, state), ErrRejected, nil)
	}
	return nil
}

// Stop sends a stop control and polls until the service leaves
// StopPending.
func (w *WindowsController) Stop(name string) error {
	m, err := w.connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return wrapErr(fmt.Sprintf("stop service %q", name), ErrNotInstalled, err)
	}
	defer s.Close()

	if _, err := s.Control(svc.Stop); err != nil {
		return wrapErr(fmt.Sprintf("stop service %q", name), ErrRejected, err)
	}
	state, err := w.waitState(s, name, svc.StopPending)
	if err != nil {
		return err
	}
	if state != svc.Stopped {
		return wrapErr(fmt.Sprintf("stop service %q: state %d", name, state), ErrRejected, nil)
	}
	return nil
}

// Delete unregisters the service and removes its event log source.
func (w *WindowsController) Delete(name string) error {
	m, err := w.connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return wrapErr(fmt.Sprintf("delete service %q", name), ErrNotInstalled, err)
	}
	defer s.Close()

	if err := eventlog.Remove(name); err != nil {
		w.log.Warn().Err(err).Str("service", name).Msg("Could not remove event log source")
	}
	if err := s.Delete(); err != nil {
		return wrapErr(fmt.Sprintf("delete service %q", name), ErrRejected, err)
	}
	w.log.Info().Str("service", name).Msg("Service unregistered")
	return nil
}

// waitState polls the service status until it leaves the pending state,
// bounded by the settle timeout.
func (w *WindowsController) waitState(s *mgr.Service, name string, pending svc.State) (svc.State, error) {
	deadline := time.Now().Add(w.settle)
	for {
		st, err := s.Query()
		if err != nil {
			return 0, wrapErr(fmt.Sprintf("query service %q", name), ErrRejected, err)
		}
		if st.State != pending {
			return st.State, nil
		}
		if time.Now().After(deadline) {
			return st.State, wrapErr(fmt.Sprintf("service %q stuck in pending state", name), ErrRejected, nil)
		}
		time.Sleep(w.pollEvery)
	}
}

func scmStartType(t StartType) uint32 {
	switch t {
	case StartManual:
		return mgr.StartManual
	case StartDisabled:
		return mgr.StartDisabled
	default:
		return mgr.StartAutomatic
	}
}

func scmErrorControl(e ErrorControl) uint32 {
	switch e {
	case ErrorControlIgnore:
		return mgr.ErrorIgnore
	case ErrorControlSevere:
		return mgr.ErrorSevere
	case ErrorControlCritical:
		return mgr.ErrorCritical
	default:
		return mgr.ErrorNormal
	}
}

package svckit

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Reporter pushes a lifecycle phase to the service manager. waitHint
// bounds how long the manager should wait before treating a pending
// transition as stalled. Report failures are logged by the caller, not
// escalated: the manager's own poll loop times out a stuck transition.
type Reporter interface {
	Report(phase Phase, waitHint time.Duration) error
}

// Handle holds the manager's reference to the running service instance.
// It is created per dispatch and shared between the dispatcher and the
// control handler, which may run on a manager-owned thread. The mutex
// guards only the reporter value itself and is never held across a
// manager call or a channel operation.
type Handle struct {
	mu  sync.Mutex
	rep Reporter
	log zerolog.Logger
}

func newHandle(log zerolog.Logger) *Handle {
	return &Handle{log: log}
}

func (h *Handle) set(rep Reporter) {
	h.mu.Lock()
	h.rep = rep
	h.mu.Unlock()
}

// Report forwards the phase to the registered reporter. Reporting
// before registration is an error; it is logged and dropped.
func (h *Handle) Report(phase Phase, waitHint time.Duration) {
	h.mu.Lock()
	rep := h.rep
	h.mu.Unlock()

	if rep == nil {
		h.log.Error().Stringer("phase", phase).Msg("Status report before handler registration")
		return
	}
	if err := rep.Report(phase, waitHint); err != nil {
		h.log.Warn().Err(err).Stringer("phase", phase).Msg("Failed to report service status")
	}
}

// phaseLogger is the reporter used outside a service manager. It only
// records transitions.
type phaseLogger struct {
	log zerolog.Logger
}

func (p phaseLogger) Report(phase Phase, waitHint time.Duration) error {
	p.log.Debug().Stringer("phase", phase).Dur("wait_hint", waitHint).Msg("Service phase")
	return nil
}

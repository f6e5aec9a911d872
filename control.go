package svckit

import (
	"time"

	"github.com/rs/zerolog"
)

// ControlKind identifies a control signal delivered by the service
// manager.
type ControlKind int

const (
	ControlStop ControlKind = iota + 1
	ControlShutdown
	ControlPause
	ControlContinue
	ControlSessionChange
)

// String returns the control kind name.
func (k ControlKind) String() string {
	switch k {
	case ControlStop:
		return "Stop"
	case ControlShutdown:
		return "Shutdown"
	case ControlPause:
		return "Pause"
	case ControlContinue:
		return "Continue"
	case ControlSessionChange:
		return "SessionChange"
	default:
		return "Unknown"
	}
}

// SessionReason is the sub-reason of a session-change control.
type SessionReason int

const (
	SessionConsoleConnect SessionReason = iota + 1
	SessionConsoleDisconnect
	SessionRemoteConnect
	SessionRemoteDisconnect
	SessionLogon
	SessionLogoff
	SessionLock
	SessionUnlock
)

// Control is a platform-neutral control signal. Reason and Session are
// set only for ControlSessionChange.
type Control struct {
	Kind    ControlKind
	Reason  SessionReason
	Session Session
}

// sessionEventKind maps a session sub-reason to its event variant.
func sessionEventKind(reason SessionReason) (EventKind, bool) {
	switch reason {
	case SessionConsoleConnect:
		return EventSessionConnect, true
	case SessionConsoleDisconnect:
		return EventSessionDisconnect, true
	case SessionRemoteConnect:
		return EventSessionRemoteConnect, true
	case SessionRemoteDisconnect:
		return EventSessionRemoteDisconnect, true
	case SessionLogon:
		return EventSessionLogon, true
	case SessionLogoff:
		return EventSessionLogoff, true
	case SessionLock:
		return EventSessionLock, true
	case SessionUnlock:
		return EventSessionUnlock, true
	default:
		return 0, false
	}
}

// controlHandler converts manager control signals into events for the
// hosted body. It runs in a context borrowed from the manager's control
// dispatch, so event sends use a bounded wait at most. It never reports
// StartPending or the initial Running; those belong to the dispatcher.
type controlHandler[T any] struct {
	events   *Channel[T]
	hnd      *Handle
	log      zerolog.Logger
	stopHint time.Duration
	sendWait time.Duration
}

// handle processes one control signal. ErrNotImplemented tells the
// platform glue to reject the signal toward the manager.
func (h *controlHandler[T]) handle(c Control) error {
	h.log.Debug().Stringer("control", c.Kind).Msg("Received service control")

	switch c.Kind {
	case ControlStop, ControlShutdown:
		h.hnd.Report(PhaseStopPending, h.stopHint)
		if !h.events.SendWait(Event[T]{Kind: EventStop}, h.sendWait) {
			h.log.Warn().Msg("Event channel full, stop event dropped")
		}
		return nil

	case ControlPause:
		h.events.Send(Event[T]{Kind: EventPause})
		return nil

	case ControlContinue:
		h.events.Send(Event[T]{Kind: EventContinue})
		return nil

	case ControlSessionChange:
		kind, ok := sessionEventKind(c.Reason)
		if !ok {
			h.log.Warn().Int("reason", int(c.Reason)).Msg("Unknown session change reason")
			return nil
		}
		h.events.Send(Event[T]{Kind: kind, Session: c.Session})
		return nil

	default:
		return ErrNotImplemented
	}
}

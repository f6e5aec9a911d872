//go:build windows

package svckit

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
)

func dispatchPlatform[T any](s *Service, body hostedBody[T]) error {
	isService, err := svc.IsWindowsService()
	if err != nil {
		s.log.Warn().Err(err).Msg("Could not determine session type, assuming interactive")
	}
	if !isService {
		return runStandalone[T](s, body)
	}
	h := &scmHandler[T]{svc: s, body: body}
	if err := svc.Run(s.name, h); err != nil {
		return wrapErr("run service control dispatcher", ErrManagerUnavailable, err)
	}
	return h.runErr
}

// scmReporter forwards phase transitions to the service control manager
// status channel. Accepted controls are advertised only in the Running
// and Paused phases so the manager cannot deliver controls during a
// pending transition.
type scmReporter struct {
	changes chan<- svc.Status
	accepts svc.Accepted
}

func (r *scmReporter) Report(phase Phase, waitHint time.Duration) error {
	st := svc.Status{
		State:    scmState(phase),
		WaitHint: uint32(waitHint / time.Millisecond),
	}
	if phase == PhaseRunning || phase == PhasePaused {
		st.Accepts = r.accepts
	}
	r.changes <- st
	return nil
}

func scmState(phase Phase) svc.State {
	switch phase {
	case PhaseStartPending:
		return svc.StartPending
	case PhaseRunning:
		return svc.Running
	case PhasePausePending:
		return svc.PausePending
	case PhasePaused:
		return svc.Paused
	case PhaseContinuePending:
		return svc.ContinuePending
	case PhaseStopPending:
		return svc.StopPending
	default:
		return svc.Stopped
	}
}

// scmHandler adapts manager change requests to the platform-neutral
// dispatcher loop.
type scmHandler[T any] struct {
	svc    *Service
	body   hostedBody[T]
	runErr error
}

func (h *scmHandler[T]) Execute(args []string, requests <-chan svc.ChangeRequest, changes chan<- svc.Status) (svcSpecificEC bool, exitCode uint32) {
	accepts := svc.AcceptStop | svc.AcceptShutdown
	if h.svc.acceptPause {
		accepts |= svc.AcceptPauseAndContinue
	}
	if h.svc.acceptSessions {
		accepts |= svc.AcceptSessionChange
	}

	controls := make(chan Control, 4)
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		for {
			select {
			case req, ok := <-requests:
				if !ok {
					return
				}
				if req.Cmd == svc.Interrogate {
					changes <- req.CurrentStatus
					time.Sleep(100 * time.Millisecond)
					changes <- req.CurrentStatus
					continue
				}
				ctl, ok := scmControl(req)
				if !ok {
					h.svc.log.Warn().Uint32("cmd", uint32(req.Cmd)).Msg("Ignoring unsupported control request")
					continue
				}
				select {
				case controls <- ctl:
				case <-quit:
					return
				}
			case <-quit:
				return
			}
		}
	}()

	d := newDispatcher[T](h.svc, h.body, controls)
	d.handle.set(&scmReporter{changes: changes, accepts: accepts})

	if err := d.run(args); err != nil {
		h.runErr = err
		return true, 1
	}
	return false, 0
}

// scmControl translates a manager change request into a Control. For
// session changes the session identifier and reason are decoded from
// the notification the manager attached to the request.
func scmControl(req svc.ChangeRequest) (Control, bool) {
	switch req.Cmd {
	case svc.Stop:
		return Control{Kind: ControlStop}, true
	case svc.Shutdown:
		return Control{Kind: ControlShutdown}, true
	case svc.Pause:
		return Control{Kind: ControlPause}, true
	case svc.Continue:
		return Control{Kind: ControlContinue}, true
	case svc.SessionChange:
		note := (*windows.WTSSESSION_NOTIFICATION)(unsafe.Pointer(req.EventData))
		reason, ok := sessionReason(req.EventType)
		if !ok || note == nil {
			return Control{}, false
		}
		return Control{
			Kind:    ControlSessionChange,
			Reason:  reason,
			Session: Session{ID: note.SessionID},
		}, true
	default:
		return Control{}, false
	}
}

func sessionReason(eventType uint32) (SessionReason, bool) {
	switch eventType {
	case windows.WTS_CONSOLE_CONNECT:
		return SessionConsoleConnect, true
	case windows.WTS_CONSOLE_DISCONNECT:
		return SessionConsoleDisconnect, true
	case windows.WTS_REMOTE_CONNECT:
		return SessionRemoteConnect, true
	case windows.WTS_REMOTE_DISCONNECT:
		return SessionRemoteDisconnect, true
	case windows.WTS_SESSION_LOGON:
		return SessionLogon, true
	case windows.WTS_SESSION_LOGOFF:
		return SessionLogoff, true
	case windows.WTS_SESSION_LOCK:
		return SessionLock, true
	case windows.WTS_SESSION_UNLOCK:
		return SessionUnlock, true
	default:
		return 0, false
	}
}

package svckit

import "time"

// EventKind identifies a lifecycle event delivered to the service body.
type EventKind int

const (
	// EventContinue resumes a previously paused service.
	EventContinue EventKind = iota + 1
	// EventPause pauses the service.
	EventPause
	// EventStop stops the service.
	EventStop
	// EventSessionConnect reports a console session connect.
	EventSessionConnect
	// EventSessionDisconnect reports a console session disconnect.
	EventSessionDisconnect
	// EventSessionRemoteConnect reports a remote session connect.
	EventSessionRemoteConnect
	// EventSessionRemoteDisconnect reports a remote session disconnect.
	EventSessionRemoteDisconnect
	// EventSessionLogon reports a session logon.
	EventSessionLogon
	// EventSessionLogoff reports a session logoff.
	EventSessionLogoff
	// EventSessionLock reports a session lock.
	EventSessionLock
	// EventSessionUnlock reports a session unlock.
	EventSessionUnlock
	// EventCustom carries an application-defined payload.
	EventCustom
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventContinue:
		return "Continue"
	case EventPause:
		return "Pause"
	case EventStop:
		return "Stop"
	case EventSessionConnect:
		return "SessionConnect"
	case EventSessionDisconnect:
		return "SessionDisconnect"
	case EventSessionRemoteConnect:
		return "SessionRemoteConnect"
	case EventSessionRemoteDisconnect:
		return "SessionRemoteDisconnect"
	case EventSessionLogon:
		return "SessionLogon"
	case EventSessionLogoff:
		return "SessionLogoff"
	case EventSessionLock:
		return "SessionLock"
	case EventSessionUnlock:
		return "SessionUnlock"
	case EventCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Session identifies the user session a session-change event refers to.
type Session struct {
	ID uint32
}

// Event is a lifecycle or control event delivered to the service body.
// Session is set only for the session-change kinds; Custom only for
// EventCustom.
type Event[T any] struct {
	Kind    EventKind
	Session Session
	Custom  T
}

// Custom builds an application-defined event.
func Custom[T any](payload T) Event[T] {
	return Event[T]{Kind: EventCustom, Custom: payload}
}

// Channel carries events from the control handler to the service body.
// Sends never block indefinitely: the control handler runs in a context
// borrowed from the service manager and must return promptly. Each
// event is consumed exactly once.
type Channel[T any] struct {
	c chan Event[T]
}

// EventSender is the send half of a Channel, handed to the service body
// so it can inject events (typically Custom) for itself.
type EventSender[T any] interface {
	// Send attempts a non-blocking delivery. It reports whether the
	// event was accepted.
	Send(ev Event[T]) bool
}

// NewChannel creates an event channel with the given buffer size.
// A non-positive size falls back to the default.
func NewChannel[T any](size int) *Channel[T] {
	if size <= 0 {
		size = defaultEventBuffer
	}
	return &Channel[T]{c: make(chan Event[T], size)}
}

const defaultEventBuffer = 16

// Events returns the receive half consumed by the service body.
func (ch *Channel[T]) Events() <-chan Event[T] {
	return ch.c
}

// Send attempts a non-blocking delivery and reports whether the event
// was accepted. A full buffer drops the event.
func (ch *Channel[T]) Send(ev Event[T]) bool {
	select {
	case ch.c <- ev:
		return true
	default:
		return false
	}
}

// SendWait delivers the event, waiting at most wait for buffer space.
// Used for Stop, where at-least-once best-effort delivery is wanted but
// the sender still may not block past the manager's patience.
func (ch *Channel[T]) SendWait(ev Event[T], wait time.Duration) bool {
	select {
	case ch.c <- ev:
		return true
	default:
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ch.c <- ev:
		return true
	case <-timer.C:
		return false
	}
}

package svckit

// Phase is the lifecycle phase reported to the service manager.
// Phases only move forward, except for the Paused/Running cycle.
// PhaseStopped is terminal and is reported exactly once per dispatch.
type Phase int

const (
	PhaseStartPending Phase = iota + 1
	PhaseRunning
	PhasePausePending
	PhasePaused
	PhaseContinuePending
	PhaseStopPending
	PhaseStopped
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStartPending:
		return "StartPending"
	case PhaseRunning:
		return "Running"
	case PhasePausePending:
		return "PausePending"
	case PhasePaused:
		return "Paused"
	case PhaseContinuePending:
		return "ContinuePending"
	case PhaseStopPending:
		return "StopPending"
	case PhaseStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

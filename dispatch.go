package svckit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RunFunc is a synchronous service body. It runs on a dedicated
// goroutine and must watch events for EventStop and return promptly
// after observing it: the dispatcher cannot force a synchronous body to
// stop, it can only wait. args is the manager-provided argument vector
// with the service name first. tx is a sender half of the same channel
// so the body may inject events for itself.
type RunFunc[T any] func(args []string, events <-chan Event[T], tx EventSender[T]) error

// TaskFunc is an asynchronous service body. Receipt of a Stop control
// races against body completion; if Stop wins, ctx is cancelled and the
// body is expected to unwind through its context plumbing rather than
// run to natural completion.
type TaskFunc[T any] func(ctx context.Context, args []string, events <-chan Event[T], tx EventSender[T]) error

// hostedBody is the dispatcher's view of a service body: run it to
// completion, or signal cancellation.
type hostedBody[T any] interface {
	start(args []string, events <-chan Event[T], tx EventSender[T]) <-chan error
	cancel()
}

type syncBody[T any] struct {
	fn RunFunc[T]
}

func (b *syncBody[T]) start(args []string, events <-chan Event[T], tx EventSender[T]) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("service body panic: %v", r)
			}
		}()
		done <- b.fn(args, events, tx)
	}()
	return done
}

// cancel is a no-op: stopping a synchronous body is cooperative only.
func (b *syncBody[T]) cancel() {}

type taskBody[T any] struct {
	fn       TaskFunc[T]
	cancelFn context.CancelFunc
}

func (b *taskBody[T]) start(args []string, events <-chan Event[T], tx EventSender[T]) <-chan error {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancelFn = cancel
	done := make(chan error, 1)
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("service body panic: %v", r)
			}
		}()
		done <- b.fn(ctx, args, events, tx)
	}()
	return done
}

func (b *taskBody[T]) cancel() {
	if b.cancelFn != nil {
		b.cancelFn()
	}
}

// dispatcher drives one full service lifecycle: status phases advance
// StartPending → Running → … → Stopped on this goroutine alone, in
// lock-step with the hosted body. Stopped is the only way back to the
// manager's event loop.
type dispatcher[T any] struct {
	name     string
	handle   *Handle
	events   *Channel[T]
	controls <-chan Control
	ctl      *controlHandler[T]
	body     hostedBody[T]
	log      zerolog.Logger
	stopWait time.Duration
}

func newDispatcher[T any](s *Service, body hostedBody[T], controls <-chan Control) *dispatcher[T] {
	handle := newHandle(s.log)
	events := NewChannel[T](s.eventBuffer)
	return &dispatcher[T]{
		name:     s.name,
		handle:   handle,
		events:   events,
		controls: controls,
		ctl: &controlHandler[T]{
			events:   events,
			hnd:      handle,
			log:      s.log,
			stopHint: s.stopHint,
			sendWait: s.sendWait,
		},
		body:     body,
		log:      s.log,
		stopWait: s.stopWait,
	}
}

// run hosts the body until it returns or a stop control arrives. Body
// errors and panics are absorbed here; they are returned to the caller
// of Dispatch but never prevent the Stopped report.
func (d *dispatcher[T]) run(args []string) error {
	d.handle.Report(PhaseStartPending, 0)
	done := d.body.start(args, d.events.Events(), d.events)
	d.handle.Report(PhaseRunning, 0)
	d.log.Info().Str("service", d.name).Msg("Service running")

	var err error
	for {
		select {
		case c := <-d.controls:
			if ctlErr := d.ctl.handle(c); ctlErr != nil {
				d.log.Warn().Err(ctlErr).Stringer("control", c.Kind).Msg("Unhandled service control")
				continue
			}
			switch c.Kind {
			case ControlStop, ControlShutdown:
				// StopPending was already reported by the handler.
				d.body.cancel()
				select {
				case err = <-done:
				case <-time.After(d.stopWait):
					d.log.Warn().Dur("wait", d.stopWait).Msg("Timeout waiting for service body to stop")
				}
				d.finish(err)
				return err
			case ControlPause:
				d.handle.Report(PhasePaused, 0)
			case ControlContinue:
				d.handle.Report(PhaseRunning, 0)
			}

		case err = <-done:
			d.finish(err)
			return err
		}
	}
}

func (d *dispatcher[T]) finish(err error) {
	if err != nil {
		d.log.Error().Err(err).Str("service", d.name).Msg("Service body exited with error")
	}
	d.handle.Report(PhaseStopped, 0)
	d.log.Info().Str("service", d.name).Msg("Service stopped")
}

// Dispatch hosts a synchronous body under the platform service
// dispatcher. Under a service manager it registers the control handler
// and blocks until the manager's dispatch loop returns; otherwise it
// runs the body in the foreground with signal-driven stop. Registration
// failure is returned before any body work starts.
func Dispatch[T any](s *Service, run RunFunc[T]) error {
	return dispatchPlatform[T](s, &syncBody[T]{fn: run})
}

// DispatchTask hosts an asynchronous, cancellable body. See Dispatch.
func DispatchTask[T any](s *Service, task TaskFunc[T]) error {
	return dispatchPlatform[T](s, &taskBody[T]{fn: task})
}

package svckit

import (
	"os"
	"os/signal"
	"syscall"
)

// runStandalone hosts the body in the foreground, outside any service
// manager. Interrupt and termination signals are translated into Stop
// controls so the body sees the same event stream either way. Phase
// transitions are logged instead of reported.
func runStandalone[T any](s *Service, body hostedBody[T]) error {
	controls := make(chan Control, 1)
	quit := make(chan struct{})
	defer close(quit)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	go func() {
		for {
			select {
			case got := <-sig:
				s.log.Info().Str("signal", got.String()).Msg("Received shutdown signal")
				select {
				case controls <- Control{Kind: ControlStop}:
				default:
				}
			case <-quit:
				return
			}
		}
	}()

	d := newDispatcher[T](s, body, controls)
	d.handle.set(phaseLogger{log: s.log})

	args := append([]string{s.name}, os.Args[1:]...)
	return d.run(args)
}

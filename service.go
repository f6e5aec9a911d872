package svckit

import (
	"time"

	"github.com/rs/zerolog"
)

// Service binds a service identity to a platform controller. The name
// is immutable once constructed; it is the key for every administrative
// lookup.
type Service struct {
	name string
	ctrl Controller
	log  zerolog.Logger

	stopHint    time.Duration
	stopWait    time.Duration
	sendWait    time.Duration
	eventBuffer int

	acceptPause    bool
	acceptSessions bool
}

// Option configures a Service.
type Option func(*Service)

// WithController overrides the platform controller. Tests typically
// inject a MemoryController or a SystemdController with a fake runner.
func WithController(c Controller) Option {
	return func(s *Service) { s.ctrl = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithStopTimeout bounds how long the dispatcher waits for the body
// after a stop control before reporting Stopped anyway.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Service) { s.stopWait = d }
}

// WithStopHint sets the wait hint advertised with StopPending.
func WithStopHint(d time.Duration) Option {
	return func(s *Service) { s.stopHint = d }
}

// WithEventBuffer sets the event channel buffer size.
func WithEventBuffer(n int) Option {
	return func(s *Service) { s.eventBuffer = n }
}

// WithPauseControl makes the dispatched service accept pause and
// continue controls from the manager.
func WithPauseControl() Option {
	return func(s *Service) { s.acceptPause = true }
}

// WithSessionNotifications makes the dispatched service receive
// session-change notifications (Windows).
func WithSessionNotifications() Option {
	return func(s *Service) { s.acceptSessions = true }
}

// New creates a Service for the given identity using the platform
// default controller unless overridden.
func New(name string, opts ...Option) *Service {
	s := &Service{
		name:     name,
		log:      zerolog.Nop(),
		stopHint: 10 * time.Second,
		stopWait: 30 * time.Second,
		sendWait: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ctrl == nil {
		s.ctrl = defaultController(s)
	}
	return s
}

// Name returns the identity the manager knows the service by.
func (s *Service) Name() string { return s.name }

// Exists reports whether the service is registered with the manager.
func (s *Service) Exists() (bool, error) {
	return s.ctrl.Exists(s.name)
}

// Create installs the service definition.
func (s *Service) Create(cfg Config) error {
	s.log.Info().Str("service", s.name).Msg("Creating service")
	return s.ctrl.Create(s.name, cfg)
}

// Start requests a start and waits for the transition to settle.
func (s *Service) Start() error {
	s.log.Info().Str("service", s.name).Msg("Starting service")
	return s.ctrl.Start(s.name)
}

// Stop requests a stop and waits for the transition to settle.
func (s *Service) Stop() error {
	s.log.Info().Str("service", s.name).Msg("Stopping service")
	return s.ctrl.Stop(s.name)
}

// Delete removes the service registration.
func (s *Service) Delete() error {
	s.log.Info().Str("service", s.name).Msg("Deleting service")
	return s.ctrl.Delete(s.name)
}

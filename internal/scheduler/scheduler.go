// Package scheduler drives periodic metric collection.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"svckit/internal/collector"
	"svckit/internal/logger"
	"svckit/internal/sender"
)

// Scheduler runs one goroutine per enabled collector, each on its own
// interval. Stop and Start may be called repeatedly; the service pause
// control maps to Stop and continue maps to Start.
type Scheduler struct {
	registry *collector.Registry
	sender   sender.Sender
	agentID  string
	hostname string
	tags     map[string]string
	clk      clock.Clock

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a scheduler over the given registry and sender.
func New(registry *collector.Registry, s sender.Sender, agentID, hostname string, tags map[string]string) *Scheduler {
	return &Scheduler{
		registry: registry,
		sender:   s,
		agentID:  agentID,
		hostname: hostname,
		tags:     tags,
		clk:      clock.New(),
	}
}

// Start begins the collection schedule. Starting a running scheduler is
// a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	log := logger.WithComponent("scheduler")

	collectors := s.registry.EnabledCollectors()
	log.Info().Int("enabled_count", len(collectors)).Msg("Starting scheduler")
	for _, c := range collectors {
		s.wg.Add(1)
		go s.runCollector(ctx, c)
	}

	return nil
}

// Stop stops the scheduler and waits for all collectors to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	log := logger.WithComponent("scheduler")
	log.Info().Msg("Stopping scheduler, waiting for collectors to finish")

	s.wg.Wait()
	log.Info().Msg("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) runCollector(ctx context.Context, c collector.Collector) {
	defer s.wg.Done()

	log := logger.WithComponent("scheduler")
	name := c.Name()
	interval := c.Interval()

	log.Info().
		Str("collector", name).
		Dur("interval", interval).
		Msg("Starting collector")

	// Collect once up front so a freshly started agent reports
	// immediately instead of after the first full interval.
	s.collect(ctx, c)

	ticker := s.clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("collector", name).Msg("Collector stopped")
			return
		case <-ticker.C:
			s.collect(ctx, c)
		}
	}
}

func (s *Scheduler) collect(ctx context.Context, c collector.Collector) {
	log := logger.WithComponent("scheduler")
	name := c.Name()

	collectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	startTime := time.Now()
	data, err := c.Collect(collectCtx)
	duration := time.Since(startTime)

	if err != nil {
		log.Error().
			Err(err).
			Str("collector", name).
			Dur("duration", duration).
			Msg("Collection failed")
		return
	}

	if data == nil {
		log.Warn().
			Str("collector", name).
			Msg("Collector returned nil data")
		return
	}

	data.AgentID = s.agentID
	data.Hostname = s.hostname
	data.Tags = s.tags

	sendCtx, sendCancel := context.WithTimeout(ctx, 10*time.Second)
	defer sendCancel()

	if err := s.sender.Send(sendCtx, data); err != nil {
		log.Error().
			Err(err).
			Str("collector", name).
			Msg("Failed to send metrics")
		return
	}

	log.Debug().
		Str("collector", name).
		Dur("duration", duration).
		Msg("Collection completed")
}

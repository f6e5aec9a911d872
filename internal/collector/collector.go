// Package collector provides interfaces and implementations for system
// metrics collection.
package collector

import (
	"context"
	"time"

	"svckit/internal/config"
)

// Collector defines the interface for all metric collectors.
type Collector interface {
	// Name returns the unique identifier for this collector.
	Name() string

	// Collect gathers metrics and returns the collected data.
	Collect(ctx context.Context) (*MetricData, error)

	// Configure applies the given configuration to the collector.
	Configure(cfg config.CollectorConfig) error

	// Interval returns the collection interval for this collector.
	Interval() time.Duration

	// Enabled returns whether the collector is enabled.
	Enabled() bool
}

// BaseCollector provides the name, interval and enabled flag shared by
// all collectors.
type BaseCollector struct {
	name     string
	interval time.Duration
	enabled  bool
}

// NewBaseCollector creates a BaseCollector with the given name, enabled
// at a 10 second interval.
func NewBaseCollector(name string) BaseCollector {
	return BaseCollector{
		name:     name,
		interval: 10 * time.Second,
		enabled:  true,
	}
}

// Name returns the collector name.
func (b *BaseCollector) Name() string {
	return b.name
}

// Interval returns the collection interval.
func (b *BaseCollector) Interval() time.Duration {
	return b.interval
}

// Enabled returns whether the collector is enabled.
func (b *BaseCollector) Enabled() bool {
	return b.enabled
}

// SetInterval sets the collection interval.
func (b *BaseCollector) SetInterval(d time.Duration) {
	b.interval = d
}

// SetEnabled sets whether the collector is enabled.
func (b *BaseCollector) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// configure applies the shared config fields. Collectors embed this as
// their Configure unless they carry extra settings.
func (b *BaseCollector) configure(cfg config.CollectorConfig) {
	b.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		b.SetInterval(cfg.Interval)
	}
}

package collector

import (
	"testing"
	"time"

	"svckit/internal/config"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(NewCPUCollector()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	c, ok := r.Get("cpu")
	if !ok {
		t.Fatal("cpu collector not found after Register")
	}
	if c.Name() != "cpu" {
		t.Errorf("Name = %q, want cpu", c.Name())
	}
}

func TestRegistry_DuplicateRegisterRejected(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(NewCPUCollector()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := r.Register(NewCPUCollector()); err == nil {
		t.Fatal("expected an error for a duplicate collector")
	}
}

func TestRegistry_EnabledCollectors(t *testing.T) {
	r := DefaultRegistry()

	if got := len(r.EnabledCollectors()); got != 3 {
		t.Fatalf("expected 3 enabled collectors by default, got %d", got)
	}

	err := r.Configure(map[string]config.CollectorConfig{
		"memory": {Enabled: false},
	})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	enabled := r.EnabledCollectors()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled collectors after disabling memory, got %d", len(enabled))
	}
	for _, c := range enabled {
		if c.Name() == "memory" {
			t.Error("memory collector should be disabled")
		}
	}
}

func TestRegistry_ConfigureAppliesInterval(t *testing.T) {
	r := DefaultRegistry()

	err := r.Configure(map[string]config.CollectorConfig{
		"cpu": {Enabled: true, Interval: 45 * time.Second},
	})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	c, _ := r.Get("cpu")
	if c.Interval() != 45*time.Second {
		t.Errorf("Interval = %v, want 45s", c.Interval())
	}
}

func TestRegistry_ConfigureIgnoresUnknownNames(t *testing.T) {
	r := DefaultRegistry()

	err := r.Configure(map[string]config.CollectorConfig{
		"gpu": {Enabled: true, Interval: time.Second},
	})
	if err != nil {
		t.Fatalf("unknown collector names must be ignored, got: %v", err)
	}
}

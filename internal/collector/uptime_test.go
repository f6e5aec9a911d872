package collector

import (
	"context"
	"testing"
	"time"
)

func TestUptimeCollector_Collect(t *testing.T) {
	c := NewUptimeCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metric, err := c.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if metric.Type != "uptime" {
		t.Errorf("Type = %q, want %q", metric.Type, "uptime")
	}

	data, ok := metric.Data.(UptimeData)
	if !ok {
		t.Fatalf("Data is not UptimeData: %T", metric.Data)
	}

	bootTime := time.Unix(data.BootTimeUnix, 0)
	if bootTime.After(time.Now()) {
		t.Errorf("BootTimeUnix is in the future: %v", bootTime)
	}
	if bootTime.Before(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("BootTimeUnix too old: %v", bootTime)
	}

	if data.BootTimeStr == "" {
		t.Error("BootTimeStr is empty")
	}
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05", data.BootTimeStr, time.Local)
	if err != nil {
		t.Errorf("BootTimeStr not parseable: %v", err)
	}
	if parsed.Unix() != data.BootTimeUnix {
		t.Errorf("BootTimeStr (%d) != BootTimeUnix (%d)", parsed.Unix(), data.BootTimeUnix)
	}

	if data.UptimeMinutes <= 0 {
		t.Errorf("UptimeMinutes = %f, want > 0", data.UptimeMinutes)
	}
}

func TestUptimeCollector_Defaults(t *testing.T) {
	c := NewUptimeCollector()

	if c.Name() != "uptime" {
		t.Errorf("Name = %q, want %q", c.Name(), "uptime")
	}
	if c.Interval() != time.Minute {
		t.Errorf("default Interval = %v, want 1m", c.Interval())
	}
	if !c.Enabled() {
		t.Error("collector should be enabled by default")
	}
}

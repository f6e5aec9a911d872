package collector

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCollector_Collect(t *testing.T) {
	c := NewMemoryCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metric, err := c.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if metric.Type != "memory" {
		t.Errorf("Type = %q, want memory", metric.Type)
	}

	data, ok := metric.Data.(MemoryData)
	if !ok {
		t.Fatalf("Data is not MemoryData: %T", metric.Data)
	}

	if data.TotalBytes == 0 {
		t.Error("TotalBytes = 0, host must have some memory")
	}
	if data.UsedBytes > data.TotalBytes {
		t.Errorf("UsedBytes (%d) > TotalBytes (%d)", data.UsedBytes, data.TotalBytes)
	}
	if data.UsagePercent < 0 || data.UsagePercent > 100 {
		t.Errorf("UsagePercent out of range: %f", data.UsagePercent)
	}
}

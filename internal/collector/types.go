package collector

import "time"

// MetricData is the common wrapper for all collected metrics.
type MetricData struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	AgentID   string            `json:"agent_id"`
	Hostname  string            `json:"hostname"`
	Tags      map[string]string `json:"tags,omitempty"`
	Data      interface{}       `json:"data"`
}

// CPUData contains overall CPU usage metrics.
type CPUData struct {
	UsagePercent float64   `json:"usage_percent"`
	User         float64   `json:"user"`
	System       float64   `json:"system"`
	Idle         float64   `json:"idle"`
	IOWait       float64   `json:"iowait,omitempty"`
	Steal        float64   `json:"steal,omitempty"`
	CoreCount    int       `json:"core_count"`
	PerCore      []float64 `json:"per_core,omitempty"`
}

// MemoryData contains memory usage metrics.
type MemoryData struct {
	TotalBytes     uint64  `json:"total_bytes"`
	UsedBytes      uint64  `json:"used_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
	SwapTotalBytes uint64  `json:"swap_total_bytes"`
	SwapUsedBytes  uint64  `json:"swap_used_bytes"`
	SwapFreeBytes  uint64  `json:"swap_free_bytes"`
	SwapPercent    float64 `json:"swap_percent"`
	Cached         uint64  `json:"cached,omitempty"`
	Buffers        uint64  `json:"buffers,omitempty"`
}

// UptimeData contains system boot time and uptime metrics.
type UptimeData struct {
	BootTimeUnix  int64   `json:"boot_time_unix"`
	BootTimeStr   string  `json:"boot_time"`
	UptimeMinutes float64 `json:"uptime_minutes"`
}

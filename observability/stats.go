// Package observability collects the server's own process metrics for
// the health endpoint.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the snapshot rendered by /health.
type Stats struct {
	PID        int       `json:"pid"`
	Status     string    `json:"status"`
	CPUPercent float64   `json:"cpu_percent"`
	RSSBytes   uint64    `json:"rss_bytes"`
	AllocMemMb uint64    `json:"alloc_mem_mb"`
	NumGC      uint32    `json:"num_gc"`
	Goroutines int       `json:"goroutines"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Collector samples gopsutil self-metrics and Go runtime counters.
// Refresh is driven by a supervised worker; readers get the latest
// sample without blocking on collection.
type Collector struct {
	mu     sync.RWMutex
	log    *slog.Logger
	proc   *process.Process
	latest Stats
}

func NewCollector(log *slog.Logger) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Collector{log: log, proc: proc}, nil
}

func (c *Collector) Refresh() {
	stats := Stats{PID: os.Getpid(), UpdatedAt: time.Now().UTC()}

	if status, err := c.proc.Status(); err == nil {
		stats.Status = status
	} else {
		c.log.Debug("process status unavailable", "error", err)
	}
	if cpu, err := c.proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if mem, err := c.proc.MemoryInfo(); err == nil && mem != nil {
		stats.RSSBytes = mem.RSS
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC
	stats.Goroutines = runtime.NumGoroutine()

	c.mu.Lock()
	c.latest = stats
	c.mu.Unlock()
}

func (c *Collector) Latest() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

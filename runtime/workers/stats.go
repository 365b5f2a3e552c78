package workers

import (
	"chat-room/observability"
	"context"
	"log/slog"
	"time"
)

// StatsWorker refreshes the process metrics served by /health.
type StatsWorker struct {
	collector *observability.Collector
	interval  time.Duration
	log       *slog.Logger
}

func NewStatsWorker(collector *observability.Collector, interval time.Duration, log *slog.Logger) *StatsWorker {
	return &StatsWorker{collector: collector, interval: interval, log: log}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	// First sample before the first tick so /health never serves zeroes
	w.collector.Refresh()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.collector.Refresh()
		}
	}
}

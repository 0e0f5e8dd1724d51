package store

// retention.go runs the periodic purge of old load events. It runs once on
// start and then every interval until ctx is cancelled. Purge failures are
// logged and retried on the next tick; they never stop the scheduler.

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes events older than a retention window.
type Purger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// RetentionConfig controls the purge scheduler.
type RetentionConfig struct {
	Retention time.Duration // keep events this long
	Interval  time.Duration // how often to purge
}

// StartRetention blocks, purging old events every cfg.Interval until ctx
// is done. Run it in its own goroutine.
func StartRetention(ctx context.Context, p Purger, cfg RetentionConfig) {
	slog.Info("load log retention started",
		"retention", cfg.Retention.String(),
		"interval", cfg.Interval.String(),
	)

	runPurge(ctx, p, cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("load log retention stopped")
			return
		case <-ticker.C:
			runPurge(ctx, p, cfg.Retention)
		}
	}
}

func runPurge(ctx context.Context, p Purger, retention time.Duration) {
	start := time.Now()
	purged, err := p.Purge(ctx, retention)
	if err != nil {
		slog.Error("load log purge failed", "error", err)
		return
	}
	slog.Info("purged load log entries",
		"entries_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

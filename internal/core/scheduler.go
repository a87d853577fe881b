package core

// scheduler.go runs periodic history retention.
//
// Entries older than the retention window are deleted. The job is
// long-running and stops with its context; a failed run is logged and the
// next tick tries again.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls history pruning.
type RetentionConfig struct {
	RetentionDays int           // days of history to keep
	CheckInterval time.Duration // how often to prune
}

// StartHistoryPruner prunes history immediately, then every CheckInterval,
// until ctx is cancelled.
func (s *Service) StartHistoryPruner(ctx context.Context, cfg RetentionConfig) {
	if cfg.RetentionDays <= 0 || cfg.CheckInterval <= 0 {
		slog.Info("history pruner disabled")
		return
	}

	slog.Info("history pruner started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval,
	)

	s.pruneHistory(ctx, cfg.RetentionDays)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history pruner stopped")
			return
		case <-ticker.C:
			s.pruneHistory(ctx, cfg.RetentionDays)
		}
	}
}

func (s *Service) pruneHistory(ctx context.Context, days int) {
	start := time.Now()
	cutoff := s.now().AddDate(0, 0, -days)

	purged, err := s.history.Purge(ctx, cutoff)
	if err != nil {
		slog.Error("history purge failed", "error", err)
		return
	}
	slog.Info("purged split history",
		"entries_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

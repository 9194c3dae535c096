package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SweepCallback is invoked after each sweep with the number of evicted sessions.
type SweepCallback func(removed int)

// StartJanitor 在后台按 interval 周期清理空闲超过 ttl 的会话，ctx 结束时退出。
// 清理与进行中的轮次并发时只会让该轮结果无法送达，不会破坏存储。
func StartJanitor(ctx context.Context, s Store, interval, ttl time.Duration, logger *zap.Logger, onSweep SweepCallback) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "janitor"))

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		logger.Info("session janitor started", zap.Duration("interval", interval), zap.Duration("ttl", ttl))

		for {
			select {
			case <-ticker.C:
				sweepOnce(ctx, s, ttl, logger, onSweep)
			case <-ctx.Done():
				logger.Info("session janitor shutting down", zap.Error(ctx.Err()))
				return
			}
		}
	}()
}

func sweepOnce(ctx context.Context, s Store, ttl time.Duration, logger *zap.Logger, onSweep SweepCallback) {
	removed, err := s.SweepOlderThan(ctx, ttl)
	if err != nil {
		logger.Error("session sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info("evicted idle sessions", zap.Int("count", removed))
	}
	if onSweep != nil {
		onSweep(removed)
	}
}

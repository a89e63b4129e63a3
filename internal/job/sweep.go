package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alderworks/workshop/internal/logger"
)

// SweepLoop drives the manager's deadline sweep on a fixed interval
// until the context is cancelled. Deadlines are clock-driven, so the
// sweep runs whether or not anything is watching the board.
func SweepLoop(ctx context.Context, m *Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.Info("deadline sweep started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("deadline sweep stopped")
			return
		case <-ticker.C:
			if failed := m.Tick(ctx); failed > 0 {
				logger.Log.Info("deadline sweep expired orders", zap.Int("count", failed))
			}
		}
	}
}

// Package maintenance runs periodic background housekeeping as Go tickers.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/kikibot/aa-alert/internal/settings"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	MuteSweepInterval time.Duration // Clear expired mute windows
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		MuteSweepInterval: 10 * time.Minute,
	}
}

// Start launches the configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, store *settings.Store, cfg Config, logger *slog.Logger) {
	if cfg.MuteSweepInterval <= 0 {
		return
	}
	logger.Info("Maintenance ticker started", "mute_sweep", cfg.MuteSweepInterval)

	ticker := time.NewTicker(cfg.MuteSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleared, err := store.ClearExpiredMute(ctx)
			if err != nil {
				logger.Warn("Mute sweep failed", "error", err)
			} else if cleared {
				logger.Info("Mute sweep: cleared expired mute")
			}
		case <-ctx.Done():
			logger.Info("Maintenance ticker stopped")
			return
		}
	}
}

package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper periodically evicts idle sessions.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	maxIdle  time.Duration
	logger   zerolog.Logger
}

func NewSweeper(manager *Manager, interval, maxIdle time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if maxIdle <= 0 {
		maxIdle = 30 * time.Minute
	}
	return &Sweeper{
		manager:  manager,
		interval: interval,
		maxIdle:  maxIdle,
		logger:   logger.With().Str("component", "session_sweeper").Logger(),
	}
}

// Run blocks until context cancellation.
func (w *Sweeper) Run(ctx context.Context) error {
	if w.manager == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Sweeper) tick() {
	if removed := w.manager.SweepIdle(w.maxIdle); removed > 0 {
		w.logger.Info().
			Int("removed", removed).
			Int("remaining", w.manager.Len()).
			Msg("idle sessions evicted")
	}
}

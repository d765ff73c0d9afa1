package reaper

import (
	"context"
	"time"

	"cinema-tickets/internal/data/repository"

	"go.uber.org/zap"
)

// Reaper periodically deletes expired hold rows. Correctness never depends on
// it; reads and grants already treat expired holds as absent. It only keeps
// the table small.
type Reaper struct {
	holds    repository.HoldRepository
	interval time.Duration
	log      *zap.Logger
}

func New(holds repository.HoldRepository, interval time.Duration, log *zap.Logger) *Reaper {
	return &Reaper{
		holds:    holds,
		interval: interval,
		log:      log.With(zap.String("component", "reaper")),
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("Reaper started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := r.holds.DeleteExpired(sweepCtx, time.Now())
	if err != nil {
		r.log.Error("Sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		r.log.Info("Expired holds removed", zap.Int64("count", removed))
	}
}

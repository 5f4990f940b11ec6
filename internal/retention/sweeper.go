// Package retention deletes aged conversation rows on a cron schedule.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/waroutehq/waroute/internal/config"
)

// sweepTimeout bounds a single delete pass.
const sweepTimeout = 5 * time.Minute

// Pruner deletes conversation rows older than a cutoff.
// Used by Sweeper.
type Pruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically prunes stored messages past the configured age.
// Disabled or zero-age configurations never delete anything.
type Sweeper struct {
	cron     *cron.Cron
	pruner   Pruner
	schedule string
	maxAge   time.Duration
	enabled  bool
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper from config.
func NewSweeper(log *slog.Logger, cfg config.RetentionConfig, pruner Pruner) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = config.DefaultRetentionSchedule
	}
	return &Sweeper{
		cron:     cron.New(),
		pruner:   pruner,
		schedule: schedule,
		maxAge:   cfg.MaxAge(),
		enabled:  cfg.Enabled && cfg.MaxAge() > 0,
		logger:   log.With(slog.String("service", "retention")),
	}
}

// Start schedules the sweep job and starts the cron runner. A disabled
// sweeper starts nothing.
func (s *Sweeper) Start() error {
	if !s.enabled {
		s.logger.Debug("retention sweeper disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.runSweep); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("retention sweeper started",
		slog.String("schedule", s.schedule),
		slog.Duration("max_age", s.maxAge))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	s.Sweep(ctx)
}

// Sweep deletes rows older than the configured age and logs the count.
func (s *Sweeper) Sweep(ctx context.Context) {
	if s.maxAge <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.maxAge)
	deleted, err := s.pruner.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("retention sweep failed", slog.Any("error", err))
		return
	}
	s.logger.Info("retention sweep completed",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff))
}

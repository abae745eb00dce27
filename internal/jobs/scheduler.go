// Package jobs runs the background reconciliation schedules: the full poll
// pass and the queue drain, both expressed as cron specs. A minute ticker
// checks each spec against the current wall-clock minute, so the process
// needs no external scheduler.
package jobs

import (
	"context"
	"time"

	"github.com/adhocore/gronx"
	"github.com/rs/zerolog/log"

	"github.com/nvoss/slack-archive-backend/internal/config"
	"github.com/nvoss/slack-archive-backend/internal/services"
)

// Scheduler fires the reconciliation services on their cron schedules.
type Scheduler struct {
	Reconcile *services.ReconcileService
	Drain     *services.DrainService
	Jobs      config.JobsConfig

	gron *gronx.Gronx
}

// New constructs a Scheduler. The cron specs have already been validated by
// the config layer.
func New(reconcile *services.ReconcileService, drain *services.DrainService, jobs config.JobsConfig) *Scheduler {
	return &Scheduler{
		Reconcile: reconcile,
		Drain:     drain,
		Jobs:      jobs,
		gron:      gronx.New(),
	}
}

// Start runs the scheduler loop until ctx is cancelled. Job failures are
// logged and never stop the loop: a failed poll pass simply waits for its
// next slot.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	log.Info().
		Str("poll_cron", s.Jobs.PollCron).
		Str("drain_cron", s.Jobs.DrainCron).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler stopped")
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

// tick runs whichever jobs are due at now. The drain runs before the poll
// when both are due in the same minute, so queued pushes land first and the
// poll's recorded-id index already contains them.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if s.due(s.Jobs.DrainCron, now) {
		if n, err := s.Drain.ProcessTasks(ctx); err != nil {
			log.Error().Err(err).Msg("queue drain failed")
		} else if n > 0 {
			log.Info().Int("inserted", n).Msg("queue drain complete")
		}
	}
	if s.due(s.Jobs.PollCron, now) {
		if err := s.Reconcile.SyncAll(ctx); err != nil {
			log.Error().Err(err).Msg("poll pass failed")
		}
	}
}

func (s *Scheduler) due(expr string, now time.Time) bool {
	ok, err := s.gron.IsDue(expr, now)
	if err != nil {
		log.Error().Err(err).Str("cron", expr).Msg("cron evaluation failed")
		return false
	}
	return ok
}

package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	ReconcileSchedule = "0 * * * *"
	PruneSchedule     = "30 3 * * *"

	jobTimeout = 5 * time.Minute
)

// Scheduler runs the Runner's jobs on their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	logger *zap.Logger
}

func NewScheduler(runner *Runner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner: runner,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(ReconcileSchedule, s.wrap(func(ctx context.Context) error {
		_, err := runner.ReconcileStorage(ctx)
		return err
	})); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(PruneSchedule, s.wrap(func(ctx context.Context) error {
		_, err := runner.PruneNotificationLogs(ctx)
		return err
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// wrap gives each run its own timeout. Errors are already logged by the Runner.
func (s *Scheduler) wrap(job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		_ = job(ctx)
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.logger.Info("job scheduler started",
		zap.String("reconcile", ReconcileSchedule),
		zap.String("prune", PruneSchedule))
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("job scheduler stop timed out")
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pinmark/pinmark-backend/internal/bootstrap"
	"github.com/pinmark/pinmark-backend/internal/jobs"
	notifrepo "github.com/pinmark/pinmark-backend/internal/notifications/repository"
)

// withRunner opens the database and hands a job runner to fn.
func withRunner(fn func(e *env, r *jobs.Runner) error) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	db, err := bootstrap.OpenDB(e.ctx, &e.cfg.Database, e.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := jobs.NewRunner(jobs.NewReconciler(db), notifrepo.NewNotificationRepository(db), e.logger)
	return fn(e, runner)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute every profile's storage usage from its images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(e *env, r *jobs.Runner) error {
			n, err := r.ReconcileStorage(e.ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profiles updated: %d\n", n)
			return nil
		})
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete notification log rows older than the retention period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(e *env, r *jobs.Runner) error {
			n, err := r.PruneNotificationLogs(e.ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rows deleted: %d\n", n)
			return nil
		})
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the maintenance jobs on their cron schedules until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(e *env, r *jobs.Runner) error {
			s, err := jobs.NewScheduler(r, e.logger)
			if err != nil {
				return err
			}
			s.Start()
			<-e.ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
			defer cancel()
			s.Stop(ctx)
			return nil
		})
	},
}

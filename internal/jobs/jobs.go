// Package jobs holds the periodic maintenance tasks and the cron scheduler that runs them.
package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/metrics"
)

const (
	JobReconcile = "reconcile_storage"
	JobPrune     = "prune_notification_logs"

	// NotificationRetention is how long notification log rows are kept.
	NotificationRetention = 90 * 24 * time.Hour
)

// Reconciler resets every profile's storage_used to the sum of the images it uploaded.
// Cascading deletes remove image rows without touching the counter, so drift is expected.
type Reconciler struct {
	db *sql.DB
}

func NewReconciler(db *sql.DB) *Reconciler {
	return &Reconciler{db: db}
}

const reconcileQuery = `
UPDATE profiles p
SET storage_used = u.total, updated_at = now()
FROM (
	SELECT pr.user_id, COALESCE(SUM(i.size), 0) AS total
	FROM profiles pr
	LEFT JOIN images i ON i.uploader_id = pr.user_id
	GROUP BY pr.user_id
) u
WHERE p.user_id = u.user_id AND p.storage_used <> u.total`

// Reconcile returns the number of profiles whose counter changed.
func (r *Reconciler) Reconcile(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, reconcileQuery)
	if err != nil {
		return 0, fmt.Errorf("reconcile storage usage: %w", err)
	}
	return res.RowsAffected()
}

// Pruner deletes notification log rows older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Runner executes the jobs once and records their outcome.
type Runner struct {
	reconciler *Reconciler
	pruner     Pruner
	logger     *zap.Logger
	now        func() time.Time
}

func NewRunner(reconciler *Reconciler, pruner Pruner, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{reconciler: reconciler, pruner: pruner, logger: logger, now: time.Now}
}

func (r *Runner) ReconcileStorage(ctx context.Context) (int64, error) {
	n, err := r.reconciler.Reconcile(ctx)
	metrics.RecordJobRun(JobReconcile, err)
	if err != nil {
		r.logger.Error("storage reconcile failed", zap.Error(err))
		return 0, err
	}
	r.logger.Info("storage reconciled", zap.Int64("profiles_updated", n))
	return n, nil
}

func (r *Runner) PruneNotificationLogs(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-NotificationRetention)
	n, err := r.pruner.Prune(ctx, cutoff)
	metrics.RecordJobRun(JobPrune, err)
	if err != nil {
		r.logger.Error("notification log prune failed", zap.Error(err))
		return 0, fmt.Errorf("prune notification logs: %w", err)
	}
	r.logger.Info("notification logs pruned", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return n, nil
}

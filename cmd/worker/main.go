// Package main implements the pinmark worker CLI: migrations and maintenance jobs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/logging"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Pinmark maintenance worker",
	Long: `worker runs database migrations and the periodic maintenance jobs
(storage usage reconciliation and notification log pruning), either once or on a schedule.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// env is what every subcommand needs before doing work.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	ctx    context.Context
	stop   context.CancelFunc
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := logging.Must(cfg.App.LogLevel, cfg.App.Environment)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logging.WithLogger(ctx, logger)
	return &env{cfg: cfg, logger: logger, ctx: ctx, stop: stop}, nil
}

func (e *env) close() {
	e.stop()
	_ = e.logger.Sync()
}

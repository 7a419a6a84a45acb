package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/bootstrap"
	"github.com/pinmark/pinmark-backend/internal/logging"
	"github.com/pinmark/pinmark-backend/internal/notifications/mailer"
	"github.com/pinmark/pinmark-backend/internal/realtime"
	"github.com/pinmark/pinmark-backend/internal/storage/objectstore"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Must(cfg.App.LogLevel, cfg.App.Environment)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	db, err := bootstrap.OpenDB(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	objects, err := objectstore.New(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatal("object store", zap.Error(err))
	}

	m, err := mailer.New(&cfg.Mail)
	if err != nil {
		logger.Fatal("mailer", zap.Error(err))
	}
	if cfg.Mail.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, notification emails are only logged")
	}

	verifier, err := bootstrap.NewVerifier(ctx, cfg)
	if err != nil {
		logger.Fatal("auth verifier", zap.Error(err))
	}

	services := bootstrap.NewServices(cfg, db, objects, m)

	hub := realtime.NewHub(rdb)
	listener := realtime.NewListener(postgres.DSN(&cfg.Database), hub)
	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.Error("change listener stopped", zap.Error(err))
		}
	}()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:    cfg,
		Logger:    logger,
		Services:  services,
		Verifier:  verifier,
		Hub:       hub,
		DBPing:    db.PingContext,
		RedisPing: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

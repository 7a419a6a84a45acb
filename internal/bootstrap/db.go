package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/db/migrations"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

// OpenDB connects to PostgreSQL and, when RUN_MIGRATIONS is set, applies pending migrations first.
func OpenDB(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	if cfg.RunMigrations {
		if err := MigrateUp(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}

	db, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return db, nil
}

// OpenMigrator returns a migrator on its own connection pool, released by Close.
func OpenMigrator(ctx context.Context, cfg *config.DatabaseConfig) (*migrations.Migrator, error) {
	db, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	m, err := migrations.New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// MigrateUp applies all pending migrations.
func MigrateUp(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) error {
	m, err := OpenMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return err
	}
	if v, dirty, err := m.Version(); err == nil {
		logger.Info("database migrated", zap.Uint("version", v), zap.Bool("dirty", dirty))
	}
	return nil
}

// OpenRedis connects to Redis and pings it.
func OpenRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

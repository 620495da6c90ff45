// Package main applies the embedded database migrations.
package main

import (
	"context"
	"fmt"
	"os"

	"storeledger/internal/config"
	appctx "storeledger/internal/core/context"
	"storeledger/internal/infrastructure/storage/postgres"
	"storeledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.IsDevelopment()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log.WithComponent("migrate"))
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = 2
	poolCfg.MinConns = 1
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatalw("migration failed", "error", err, "applied", applied)
	}

	if len(applied) == 0 {
		log.Info("database schema is up to date")
		return
	}
	log.Infow("migrations applied", "count", len(applied), "versions", applied)
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/phatnt99/shelfwise/internal/config"
	"github.com/phatnt99/shelfwise/internal/log"
	"github.com/phatnt99/shelfwise/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Replica  config.Replica
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	logger.InfoContext(ctx, "starting database migration")

	if err := db.Migrate(pgxPool); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	// The replica holds shadow copies of the same tables.
	if cfg.Replica.Enabled {
		replicaPool, err := db.NewReplicaPgxPool(ctx, cfg.Replica)
		if err != nil {
			return fmt.Errorf("error creating replica pgx pool: %w", err)
		}
		defer replicaPool.Close()

		logger.InfoContext(ctx, "starting replica database migration")

		if err := db.Migrate(replicaPool); err != nil {
			return fmt.Errorf("error migrating replica database: %w", err)
		}
	}

	logger.InfoContext(ctx, "database migration completed successfully")

	return nil
}

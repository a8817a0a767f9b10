package db

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phatnt99/shelfwise/internal/config"
)

// NewPgxPool creates a new pgx pool against the primary database.
func NewPgxPool(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	return newPool(ctx, connectionString(cfg), func(pgConf *pgxpool.Config) {
		pgConf.MaxConns = cfg.MaxConns
		pgConf.MinConns = cfg.MinConns
		pgConf.MaxConnLifetime = cfg.MaxConnLifetime
		pgConf.MaxConnIdleTime = cfg.MaxConnIdleTime
	})
}

// NewReplicaPgxPool creates a pool against the replica database. The replica
// is configured with a plain connection string, matching how hosted providers
// hand out credentials.
func NewReplicaPgxPool(ctx context.Context, cfg config.Replica) (*pgxpool.Pool, error) {
	return newPool(ctx, cfg.URL, func(pgConf *pgxpool.Config) {
		pgConf.MaxConns = cfg.MaxConns
	})
}

func newPool(ctx context.Context, connString string, configure func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	pgConf, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	pgConf.ConnConfig.Tracer = otelpgx.NewTracer()
	configure(pgConf)

	pool, err := pgxpool.NewWithConfig(ctx, pgConf)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := otelpgx.RecordStats(pool); err != nil {
		return nil, fmt.Errorf("record database stats: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := pool.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func connectionString(cfg config.Postgres) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DB, cfg.SSLMode)
}

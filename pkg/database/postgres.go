package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewPostgresPool creates a pgx connection pool against the platform's
// Postgres surface. The schema and the registration routine are owned by the
// platform; this service never migrates or alters it.
//
// The platform fronts connections with its own pooler, so the local pool stays
// small and recycles connections on a bounded lifetime instead of holding them
// open indefinitely.
func NewPostgresPool(ctx context.Context, dsn string, maxConns int, connLifetimeMin int, logger *zap.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = int32(maxConns)
	}
	if connLifetimeMin > 0 {
		config.MaxConnLifetime = time.Duration(connLifetimeMin) * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("platform connection pool established",
		zap.Int32("max_conns", config.MaxConns),
		zap.Duration("conn_lifetime", config.MaxConnLifetime))
	return pool, nil
}

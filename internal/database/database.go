package database

import (
	"context"
	"fmt"
	"time"

	"quickbite/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	connIdleTimeout   = 30 * time.Minute
	healthCheckPeriod = time.Minute
)

// NewPool opens a pgx connection pool against the configured database
// and verifies it with a ping before handing it back.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = connIdleTimeout
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("name", cfg.Database).
		Int("pool_max", cfg.MaxConnections).
		Int("pool_min", cfg.MinConnections).
		Msg("opening postgres pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("postgres pool ready")

	return pool, nil
}

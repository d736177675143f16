// Package db provides the PostgreSQL connection pool for the ledger.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/config"
)

// Pool sizing and lifetime fallbacks used when the config leaves them unset.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultConnLifetime   = time.Hour
	defaultConnIdleTime   = 30 * time.Minute
	healthCheckPeriod     = 30 * time.Second
)

// Pool wraps pgxpool.Pool.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects to PostgreSQL and verifies the connection with a ping.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.PoolSize)
	poolConfig.MinConns = max(int32(cfg.PoolSize/4), 1)
	poolConfig.ConnConfig.ConnectTimeout = durationOr(cfg.ConnectTimeout, defaultConnectTimeout)
	poolConfig.MaxConnLifetime = durationOr(cfg.MaxConnLifetime, defaultConnLifetime)
	poolConfig.MaxConnIdleTime = durationOr(cfg.MaxConnIdleTime, defaultConnIdleTime)
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int("pool_size", cfg.PoolSize).
		Msg("Connecting to PostgreSQL")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to PostgreSQL")

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		log.Info().Msg("PostgreSQL connection pool closed")
	}
}

// HealthCheck pings the database.
func (p *Pool) HealthCheck(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

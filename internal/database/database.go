package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes the connection pool behind the postgres material store
type PoolConfig struct {
	ConnString      string
	MaxConns        int
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
	// ApplicationName shows up in pg_stat_activity; defaults to DefaultApplicationName
	ApplicationName string
}

// NewPool opens a pool and verifies the database answers before returning it.
// Every stack mutation holds one connection for its whole transaction, so
// MaxConns bounds how many owners can be mutated concurrently.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	maxConns := cfg.MaxConns
	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	if maxConns > 0 {
		config.MaxConns = int32(maxConns)
	}
	config.MinConns = min(DefaultMinConnections, config.MaxConns)
	if cfg.MaxConnLifetime > 0 {
		config.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	appName := cfg.ApplicationName
	if appName == "" {
		appName = DefaultApplicationName
	}
	config.ConnConfig.RuntimeParams["application_name"] = appName

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgSuccessfullyConnectedToDatabase,
		"max_conns", config.MaxConns, "application_name", appName)
	return pool, nil
}

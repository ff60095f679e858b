package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/Crucible_Go/internal/config"
	"github.com/osse101/Crucible_Go/internal/database"
	"github.com/osse101/Crucible_Go/internal/database/memory"
	"github.com/osse101/Crucible_Go/internal/database/postgres"
	"github.com/osse101/Crucible_Go/internal/repository"
)

// Storage is the repository every service runs against, plus its closer
type Storage struct {
	Store repository.Store
	close func()
}

// Close releases the underlying connection pool, if any
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
	slog.Info(LogMsgStorageClosed)
}

// InitializeStorage selects the storage driver from config. PostgreSQL storage
// is migrated to the latest schema before it is returned.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if !cfg.UsesPostgres() {
		slog.Info(LogMsgStorageMemory)
		return &Storage{Store: memory.NewStore()}, nil
	}

	connString := cfg.GetDBConnString()
	if err := database.Migrate(ctx, connString, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	slog.Info(LogMsgMigrationsComplete)

	pool, err := database.NewPool(ctx, database.PoolConfig{
		ConnString:      connString,
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		ApplicationName: cfg.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}

	slog.Info(LogMsgStoragePostgres, "host", cfg.DBHost, "db", cfg.DBName, "max_conns", cfg.DBMaxConns)
	return &Storage{Store: postgres.NewStore(pool), close: pool.Close}, nil
}

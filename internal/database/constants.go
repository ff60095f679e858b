package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections int32 = 2

	// DefaultApplicationName tags the store's connections in pg_stat_activity
	DefaultApplicationName = "crucible"

	// PingTimeout bounds the liveness check run when a pool is opened
	PingTimeout = 5 * time.Second

	// MigrationDriver is the database/sql driver goose runs migrations through
	MigrationDriver = "pgx"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToOpenMigrationDB = "failed to open migration connection"
	ErrMsgFailedToLoadMigrations  = "failed to load migrations"
	ErrMsgFailedToApplyMigrations = "failed to apply migrations"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Applied migration"
)

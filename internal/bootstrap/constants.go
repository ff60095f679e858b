package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept when a session starts
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting material pipeline"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStorageMemory      = "Using in-memory storage"
	LogMsgStoragePostgres    = "Using PostgreSQL storage"
	LogMsgMigrationsComplete = "Database migrations complete"
	ErrMsgFailedConnectDB    = "failed to connect to database"
	ErrMsgFailedMigrate      = "failed to run migrations"
)

// =============================================================================
// Catalog
// =============================================================================

const (
	ErrMsgFailedLoadCatalog = "failed to load catalog"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventAuditRegistered       = "Event audit logger registered"
	LogMsgEventAudit                 = "Event published"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Workers
// =============================================================================

const (
	// WorkerPoolSize is the number of background workers
	WorkerPoolSize = 2

	// WorkerQueueSize is the number of jobs that may wait for a worker
	WorkerQueueSize = 16

	// SweepJobName identifies the manufacturing sweeper in scheduler logs
	SweepJobName = "manufacturing-sweep"

	LogMsgWorkersStarted = "Background workers started"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownWorkers        = "Stopping background workers..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgStorageClosed              = "Storage closed"
)

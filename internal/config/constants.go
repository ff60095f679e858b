package config

import "time"

// Storage drivers
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Defaults applied when the environment leaves a setting unset or unparsable
const (
	DefaultPort                 = 8080
	DefaultDBMaxConns           = 20
	DefaultDBMaxConnIdleTime    = 5 * time.Minute
	DefaultDBMaxConnLifetime    = 30 * time.Minute
	DefaultCatalogDir           = "configs/catalog"
	DefaultCatalogCacheSize     = 256
	DefaultRefiningCycleSeconds = 30
	DefaultJobSweepInterval     = 15 * time.Second
	DefaultDeadLetterPath       = "logs/event_deadletter.jsonl"
)

// Error messages
const (
	ErrMsgAPIKeyRequired       = "API_KEY environment variable must be set for security"
	ErrMsgInvalidPort          = "invalid PORT value"
	ErrMsgInvalidStorageDriver = "invalid STORAGE_DRIVER"
	ErrMsgInvalidRNGSeed       = "invalid RNG_SEED value"
	ErrMsgInvalidSweepInterval = "JOB_SWEEP_INTERVAL must be positive"
	ErrMsgInvalidCycleSeconds  = "REFINING_CYCLE_SECONDS must be positive"
)

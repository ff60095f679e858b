package worker

import "time"

// Pool defaults
const (
	// DefaultJobTimeout bounds a single job run
	DefaultJobTimeout = 30 * time.Second
)

// Sweep defaults
const (
	// DefaultSweepBatchSize is the number of jobs completed per round
	DefaultSweepBatchSize = 100
	// MaxSweepRounds caps the rounds of a single sweep
	MaxSweepRounds = 10
)

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Job Sweeper
// ============================================================================

// Log messages for the manufacturing job sweeper
const (
	LogMsgSweepCompleted = "Job sweep completed"
	LogMsgSweepFailed    = "Job sweep failed"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)

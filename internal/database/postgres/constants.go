package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeDeadlockDetected is raised when two transactions wait on each other
	PgErrorCodeDeadlockDetected = "40P01"
	// PgErrorCodeSerializationFailure is raised when a concurrent update invalidates the transaction
	PgErrorCodeSerializationFailure = "40001"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToLockOwner         = "failed to lock owner"
)

// Error Messages - Material Stacks
const (
	ErrMsgFailedToGetStack     = "failed to get stack"
	ErrMsgFailedToListStacks   = "failed to list stacks"
	ErrMsgFailedToCreateStack  = "failed to create stack"
	ErrMsgFailedToConsume      = "failed to consume stack"
	ErrMsgFailedToMergeStack   = "failed to merge into stack"
	ErrMsgFailedToUpdatePurity = "failed to update purity"
)

// Error Messages - Jobs
const (
	ErrMsgFailedToGetJob        = "failed to get job"
	ErrMsgFailedToListJobs      = "failed to list jobs"
	ErrMsgFailedToScanJob       = "failed to scan job"
	ErrMsgFailedToSaveJob       = "failed to save job"
	ErrMsgFailedToMarshalStats  = "failed to marshal job stats"
	ErrMsgFailedToDecodeStats   = "failed to decode job stats"
	ErrMsgFailedToMarkCompleted = "failed to mark job completed"
	ErrMsgFailedToQueryLatest   = "failed to query latest completion"
)

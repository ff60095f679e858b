package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Material errors
	ErrMsgInsufficientMaterial = "insufficient material"
	ErrMsgIncompatibleBatch    = "incompatible batch"
	ErrMsgInvalidQuantity      = "invalid quantity"
	ErrMsgUnknownMaterialType  = "unknown material type"
	ErrMsgStackNotFound        = "material stack not found"
	ErrMsgNotOwner             = "stack belongs to another owner"

	// Blueprint errors
	ErrMsgBlueprintNotFound = "blueprint not found"

	// Job errors
	ErrMsgJobNotFound       = "job not found"
	ErrMsgJobNotCancellable = "job can no longer be cancelled"
	ErrMsgJobNotComplete    = "job is not complete"
	ErrMsgJobAlreadyClaimed = "job output already collected"

	// Database/System errors
	ErrMsgDatabaseError    = "database error"
	ErrMsgDeadlockDetected = "deadlock detected"
	ErrMsgTxClosed         = "tx is closed"

	// Input errors
	ErrMsgInvalidInput    = "invalid input"
	ErrMsgInvalidRiskMode = "invalid risk mode"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Material errors
	ErrInsufficientMaterial = errors.New(ErrMsgInsufficientMaterial)
	ErrIncompatibleBatch    = errors.New(ErrMsgIncompatibleBatch)
	ErrInvalidQuantity      = errors.New(ErrMsgInvalidQuantity)
	ErrUnknownMaterialType  = errors.New(ErrMsgUnknownMaterialType)
	ErrStackNotFound        = errors.New(ErrMsgStackNotFound)
	ErrNotOwner             = errors.New(ErrMsgNotOwner)

	// Blueprint errors
	ErrBlueprintNotFound = errors.New(ErrMsgBlueprintNotFound)

	// Job errors
	ErrJobNotFound       = errors.New(ErrMsgJobNotFound)
	ErrJobNotCancellable = errors.New(ErrMsgJobNotCancellable)
	ErrJobNotComplete    = errors.New(ErrMsgJobNotComplete)
	ErrJobAlreadyClaimed = errors.New(ErrMsgJobAlreadyClaimed)

	// Database/System errors
	ErrDeadlockDetected = errors.New(ErrMsgDeadlockDetected)
	ErrTxClosed         = errors.New(ErrMsgTxClosed)

	// Validation errors
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
	ErrInvalidRiskMode = errors.New(ErrMsgInvalidRiskMode)
)

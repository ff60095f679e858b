package manufacturing

import "time"

// Manufacturing tuning
const (
	// DurationPerTier is the base build time of one blueprint tier
	DurationPerTier = 60 * time.Second

	// MaxBatchSize bounds a single queue request
	MaxBatchSize = 100

	// MaxSpeedBonus keeps every job at least a tenth of its base duration
	MaxSpeedBonus = 0.9

	// DefaultSweepLimit is how many due jobs one sweep completes
	DefaultSweepLimit = 100

	// attributeScale converts attribute values into a multiplier
	attributeScale = 100.0

	floorEpsilon = 1e-9
)

// Error messages
const (
	ErrMsgOwnerRequired     = "owner id is required"
	ErrMsgBlueprintRequired = "blueprint id is required"
	ErrMsgBatchOutOfRange   = "batch size must be between 1 and %d"
	ErrMsgNoSelection       = "no stack selected for %s"
	ErrMsgSelectionMismatch = "stack %s holds %s, requirement is %s"
	ErrMsgUnusedSelection   = "blueprint does not require %s"
	ErrMsgDuplicateMaterial = "blueprint lists %s more than once"
	ErrMsgShortStack        = "stack %s holds %d, need %d"
)

// Log messages
const (
	LogMsgQueueRequested     = "Manufacturing requested"
	LogMsgQueueRejected      = "Manufacturing request rejected"
	LogMsgJobQueued          = "Manufacturing job queued"
	LogMsgJobCancelled       = "Manufacturing job cancelled"
	LogMsgJobCollected       = "Manufacturing job collected"
	LogMsgJobsCompleted      = "Manufacturing jobs completed"
	LogMsgBonusLookupFailed  = "Failed to look up bonuses, continuing without"
	LogMsgEventPublishFailed = "Failed to publish manufacturing event"
)

package refining

import "time"

// Refining cycle tuning
const (
	// LossRate is the fraction of quantity lost per cycle
	LossRate = 0.20
	// GainRate is the fraction of the remaining impurity removed per cycle
	GainRate = 0.30
	// MaxCyclesPerJob bounds a single refining request
	MaxCyclesPerJob = 20
	// DefaultCycleDuration is the wall-clock time of one cycle
	DefaultCycleDuration = 30 * time.Second

	// floorEpsilon absorbs float error before flooring quantities
	floorEpsilon = 1e-9
)

// Error messages
const (
	ErrMsgNoStacks          = "no stacks supplied"
	ErrMsgMixedMaterialType = "material types differ"
	ErrMsgMixedTier         = "tiers differ"
	ErrMsgMixedRefinedState = "refined states differ"
	ErrMsgMixedOwner        = "stacks belong to different owners"
	ErrMsgNegativeQuantity  = "negative stack quantity"
	ErrMsgTooFewToRefine    = "quantity too small for a refining cycle"
	ErrMsgCyclesOutOfRange  = "cycles must be between 1 and %d"
	ErrMsgDuplicateStack    = "stack listed more than once"
)

// Log messages
const (
	LogMsgRefineStarted      = "Refining job requested"
	LogMsgRefineQueued       = "Refining job queued"
	LogMsgRefineCollected    = "Refining output collected"
	LogMsgRefineCancelled    = "Refining job cancelled"
	LogMsgConsolidated       = "Stacks consolidated"
	LogMsgRefineRejected     = "Refining request rejected"
	LogMsgEventPublishFailed = "Failed to publish refining event"
)

package purification

// Purification tuning
const (
	// MinBatchSize is the smallest amount a single attempt may be requested for
	MinBatchSize = 10

	MinUpgradeChance   = 5.0
	MaxUpgradeChance   = 90.0
	MinDowngradeChance = 5.0
	MaxDowngradeChance = 60.0

	// MinImprovement keeps progress from stalling entirely
	MinImprovement = 0.001

	// LevelDecay scales improvement per refinement level already reached
	LevelDecay = 0.8

	HighPurityThreshold  = 0.85
	PeakPurityThreshold  = 0.95
	HighPurityGainFactor = 0.7
	PeakPurityGainFactor = 0.5

	MinContamination = 0.05
	MaxContamination = 0.15

	RefinedLossFactor    = 0.2
	PeakPurityLossFactor = 0.3
	HighPurityLossFactor = 0.5
)

// Error messages
const (
	ErrMsgBelowMinBatch   = "requested amount is below the minimum batch of %d"
	ErrMsgExceedsStack    = "requested %d but stack holds %d"
	ErrMsgOwnerRequired   = "owner id is required"
	ErrMsgStackIDRequired = "stack id is required"
)

// Log messages
const (
	LogMsgPurifyRequested    = "Purification requested"
	LogMsgPurifyRejected     = "Purification rejected"
	LogMsgPurifyResolved     = "Purification resolved"
	LogMsgEventPublishFailed = "Failed to publish purification event"
)

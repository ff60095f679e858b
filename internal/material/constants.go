package material

// Extraction tuning
const (
	// MinExtractedPurity and MaxExtractedPurity bound the purity rolled for fresh ore
	MinExtractedPurity = 0.10
	MaxExtractedPurity = 0.70
	// MaxExtractQuantity bounds a single extraction
	MaxExtractQuantity = 100000
)

// Error messages
const (
	ErrMsgOwnerRequired   = "owner id is required"
	ErrMsgInvalidTier     = "tier must be between %d and %d"
	ErrMsgQuantityRange   = "quantity must be between 1 and %d"
	ErrMsgPurityRange     = "purity must be between 0 and 1"
	ErrMsgStackIDRequired = "stack id is required"
)

// Log messages
const (
	LogMsgExtracted       = "Material extracted"
	LogMsgExtractRejected = "Extraction rejected"
)

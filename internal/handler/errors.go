package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgMissingPathParam  = "Missing %s path parameter"

	// Health messages
	ErrMsgStorageUnavailable = "storage connection failed"
)

// Operation names used in logs
const (
	OpExtract            = "Extract material"
	OpListStacks         = "List stacks"
	OpGetStack           = "Get stack"
	OpConsolidate        = "Consolidate stacks"
	OpRefinePreview      = "Refine preview"
	OpRefine             = "Refine"
	OpListRefiningJobs   = "List refining jobs"
	OpGetRefiningJob     = "Get refining job"
	OpCollectRefining    = "Collect refining job"
	OpCancelRefining     = "Cancel refining job"
	OpPurify             = "Purify"
	OpPurifyOdds         = "Purification odds"
	OpPlanManufacture    = "Plan manufacturing"
	OpQueueManufacture   = "Queue manufacturing"
	OpListManufacture    = "List manufacturing jobs"
	OpGetManufacture     = "Get manufacturing job"
	OpCancelManufacture  = "Cancel manufacturing job"
	OpCollectManufacture = "Collect manufacturing job"
	OpGetBlueprint       = "Get blueprint"
)

// Success messages
const (
	MsgExtractSuccess       = "Material extracted"
	MsgConsolidateSuccess   = "Stacks consolidated"
	MsgRefineQueued         = "Refining job queued"
	MsgRefineCollected      = "Refined material collected"
	MsgRefineCancelled      = "Refining job cancelled"
	MsgManufactureQueued    = "Manufacturing job queued"
	MsgManufactureDone      = "Manufacturing job collected"
	MsgManufactureCancelled = "Manufacturing job cancelled"
)

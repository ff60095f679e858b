package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameRefiningJobs         = "refining_jobs_total"
	MetricNameRefiningWaste        = "refining_waste_units_total"
	MetricNameRefiningCollected    = "refining_collected_units_total"
	MetricNamePurificationAttempts = "purification_attempts_total"
	MetricNamePurificationCost     = "purification_cost_units_total"
	MetricNameStacksConsolidated   = "stacks_consolidated_total"
	MetricNameManufacturingJobs    = "manufacturing_jobs_total"
	MetricNameManufacturingUnits   = "manufacturing_units_total"
	MetricNameJobSweepCompleted    = "job_sweep_completed_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextRefiningJobs         = "Total number of refining jobs queued"
	HelpTextRefiningWaste        = "Total units lost to refining waste"
	HelpTextRefiningCollected    = "Total refined units credited to owners"
	HelpTextPurificationAttempts = "Total number of purification attempts by risk mode and outcome"
	HelpTextPurificationCost     = "Total units consumed as purification cost"
	HelpTextStacksConsolidated   = "Total number of consolidations"
	HelpTextManufacturingJobs    = "Total number of manufacturing job transitions by status"
	HelpTextManufacturingUnits   = "Total number of units queued for manufacturing"
	HelpTextJobSweepCompleted    = "Total number of jobs completed by the background sweeper"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod       = "method"
	LabelPath         = "path"
	LabelStatus       = "status"
	LabelType         = "type"
	LabelMaterialType = "material_type"
	LabelRiskMode     = "risk_mode"
	LabelOutcome      = "outcome"
	LabelBlueprint    = "blueprint"
)

// Status label values for manufacturing transitions
const (
	StatusQueued    = "queued"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// UnmatchedRoute labels requests that no route matched
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)

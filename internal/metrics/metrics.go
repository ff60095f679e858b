package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	RefiningJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRefiningJobs,
			Help: HelpTextRefiningJobs,
		},
		[]string{LabelMaterialType},
	)

	RefiningWaste = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRefiningWaste,
			Help: HelpTextRefiningWaste,
		},
		[]string{LabelMaterialType},
	)

	RefiningCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRefiningCollected,
			Help: HelpTextRefiningCollected,
		},
	)

	PurificationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePurificationAttempts,
			Help: HelpTextPurificationAttempts,
		},
		[]string{LabelRiskMode, LabelOutcome},
	)

	PurificationCost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePurificationCost,
			Help: HelpTextPurificationCost,
		},
		[]string{LabelRiskMode},
	)

	StacksConsolidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStacksConsolidated,
			Help: HelpTextStacksConsolidated,
		},
		[]string{LabelMaterialType},
	)

	ManufacturingJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameManufacturingJobs,
			Help: HelpTextManufacturingJobs,
		},
		[]string{LabelBlueprint, LabelStatus},
	)

	ManufacturingUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameManufacturingUnits,
			Help: HelpTextManufacturingUnits,
		},
		[]string{LabelBlueprint},
	)

	JobSweepCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameJobSweepCompleted,
			Help: HelpTextJobSweepCompleted,
		},
	)
)

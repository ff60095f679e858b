package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "material.refined")
const (
	// EventTypeMaterialRefined is published when a refining job is queued
	EventTypeMaterialRefined = "material.refined"

	// EventTypeRefiningCollected is published when refined output is credited to the owner
	EventTypeRefiningCollected = "refining.collected"

	// EventTypeMaterialPurified is published after every purification attempt, whatever the outcome
	EventTypeMaterialPurified = "material.purified"

	// EventTypeMaterialConsolidated is published when stacks are merged without refining
	EventTypeMaterialConsolidated = "material.consolidated"

	// EventTypeManufacturingQueued is published when materials are consumed for a job
	EventTypeManufacturingQueued = "manufacturing.queued"

	// EventTypeManufacturingCompleted is published once per job when its ETA has passed
	EventTypeManufacturingCompleted = "manufacturing.completed"

	// EventTypeManufacturingCancelled is published when an owner cancels a job
	EventTypeManufacturingCancelled = "manufacturing.cancelled"
)

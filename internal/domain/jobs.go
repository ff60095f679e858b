package domain

import "time"

// JobStatus is the lifecycle state of a manufacturing or refining job
type JobStatus string

const (
	JobPlanning   JobStatus = "planning"
	JobQueued     JobStatus = "queued"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition is possible
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobFailureCancelled is the failure reason recorded when an owner cancels a job
const JobFailureCancelled = "cancelled"

// ConsumedMaterial records what a job took from a stack when it was queued
type ConsumedMaterial struct {
	StackID      string       `json:"stack_id"`
	MaterialType MaterialType `json:"material_type"`
	Tier         Tier         `json:"tier"`
	Purity       Purity       `json:"purity"`
	Quantity     int          `json:"quantity"`
}

// ManufacturingJob is a queued crafting run. Stats are fixed when the job is queued.
type ManufacturingJob struct {
	ID            string               `json:"id"`
	OwnerID       string               `json:"owner_id"`
	BlueprintID   string               `json:"blueprint_id"`
	BatchSize     int                  `json:"batch_size"`
	Stats         map[StatName]float64 `json:"stats"`
	Consumed      []ConsumedMaterial   `json:"consumed"`
	Status        JobStatus            `json:"status"`
	FailureReason string               `json:"failure_reason,omitempty"`
	QueuedAt      time.Time            `json:"queued_at"`
	StartsAt      time.Time            `json:"starts_at"`
	CompletesAt   time.Time            `json:"completes_at"`
	CollectedAt   *time.Time           `json:"collected_at,omitempty"`
}

// StatusAt derives the job status from the clock. Stored terminal states win.
func (j ManufacturingJob) StatusAt(now time.Time) JobStatus {
	if j.Status.Terminal() || j.Status == JobPlanning {
		return j.Status
	}
	switch {
	case now.Before(j.StartsAt):
		return JobQueued
	case now.Before(j.CompletesAt):
		return JobInProgress
	default:
		return JobCompleted
	}
}

// RefiningJob is a timed refining run. The output is computed at queue time
// and credited to the owner when collected.
type RefiningJob struct {
	ID             string       `json:"id"`
	OwnerID        string       `json:"owner_id"`
	MaterialType   MaterialType `json:"material_type"`
	Tier           Tier         `json:"tier"`
	InputQuantity  int          `json:"input_quantity"`
	InputPurity    Purity       `json:"input_purity"`
	CyclesApplied  int          `json:"cycles_applied"`
	OutputQuantity int          `json:"output_quantity"`
	OutputPurity   Purity       `json:"output_purity"`
	Waste          int          `json:"waste"`
	Status         JobStatus    `json:"status"`
	FailureReason  string       `json:"failure_reason,omitempty"`
	OutputStackID  string       `json:"output_stack_id,omitempty"`
	QueuedAt       time.Time    `json:"queued_at"`
	CompletesAt    time.Time    `json:"completes_at"`
	CollectedAt    *time.Time   `json:"collected_at,omitempty"`
}

// StatusAt derives the job status from the clock
func (j RefiningJob) StatusAt(now time.Time) JobStatus {
	if j.Status.Terminal() {
		return j.Status
	}
	if now.Before(j.CompletesAt) {
		return JobInProgress
	}
	return JobCompleted
}

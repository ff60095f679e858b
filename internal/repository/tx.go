package repository

import (
	"context"
	"time"

	"github.com/osse101/Crucible_Go/internal/domain"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// MaterialTx is a unit of work over stacks and jobs. Nothing is visible to
// other callers until Commit. Stacks read with GetStackForUpdate stay locked
// until the transaction ends.
type MaterialTx interface {
	Tx
	GetStackForUpdate(ctx context.Context, stackID string) (*domain.MaterialStack, error)
	// Consume deducts quantity or fails with domain.ErrInsufficientMaterial, never partially
	Consume(ctx context.Context, stackID string, quantity int) error
	ProduceOrMerge(ctx context.Context, production domain.StackProduction) (string, error)
	UpdatePurity(ctx context.Context, stackID string, purity domain.Purity) error

	SaveRefiningJob(ctx context.Context, job *domain.RefiningJob) error
	GetRefiningJobForUpdate(ctx context.Context, jobID string) (*domain.RefiningJob, error)

	SaveManufacturingJob(ctx context.Context, job *domain.ManufacturingJob) error
	GetManufacturingJobForUpdate(ctx context.Context, jobID string) (*domain.ManufacturingJob, error)
	// LatestManufacturingCompletion returns the latest CompletesAt of the owner's
	// unfinished jobs, or the zero time when the owner has none
	LatestManufacturingCompletion(ctx context.Context, ownerID string) (time.Time, error)
}

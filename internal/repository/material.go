package repository

import (
	"context"
	"time"

	"github.com/osse101/Crucible_Go/internal/domain"
)

// MaterialStack defines the persistence contract for material stacks
type MaterialStack interface {
	GetStack(ctx context.Context, stackID string) (*domain.MaterialStack, error)
	ListStacksByOwner(ctx context.Context, ownerID string) ([]domain.MaterialStack, error)
	// CreateStack stores a freshly extracted stack as-is, without merging
	CreateStack(ctx context.Context, stack *domain.MaterialStack) error
	// Consume atomically deducts quantity; concurrent callers cannot both pass the check
	Consume(ctx context.Context, stackID string, quantity int) error
	// ProduceOrMerge credits material to the owner's fungible stack, creating it if needed
	ProduceOrMerge(ctx context.Context, production domain.StackProduction) (string, error)
	BeginTx(ctx context.Context) (MaterialTx, error)
}

// Refining defines the persistence needed by the refining service
type Refining interface {
	MaterialStack
	GetRefiningJob(ctx context.Context, jobID string) (*domain.RefiningJob, error)
	ListRefiningJobs(ctx context.Context, ownerID string) ([]domain.RefiningJob, error)
}

// Manufacturing defines the persistence needed by the manufacturing service
type Manufacturing interface {
	MaterialStack
	GetManufacturingJob(ctx context.Context, jobID string) (*domain.ManufacturingJob, error)
	ListManufacturingJobs(ctx context.Context, ownerID string) ([]domain.ManufacturingJob, error)
	// ListDueManufacturingJobs returns jobs still stored as queued whose ETA is at or before now
	ListDueManufacturingJobs(ctx context.Context, now time.Time, limit int) ([]domain.ManufacturingJob, error)
	// MarkManufacturingCompleted flips a queued job to completed and reports whether it did
	MarkManufacturingCompleted(ctx context.Context, jobID string) (bool, error)
}

// Store is the full persistence surface of the material pipeline
type Store interface {
	Refining
	Manufacturing
	Ping(ctx context.Context) error
}

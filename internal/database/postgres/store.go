// Package postgres implements the material store on PostgreSQL with pgx.
// Writes run in transactions that take a per-owner advisory lock, and
// deductions are conditional updates so a stack never goes negative.
package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Crucible_Go/internal/database/generated"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/repository"
)

// Store implements repository.Store for PostgreSQL
type Store struct {
	db  *pgxpool.Pool
	q   *generated.Queries
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a new Store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db, q: generated.New(db), now: time.Now}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// BeginTx starts a transaction
func (s *Store) BeginTx(ctx context.Context) (repository.MaterialTx, error) {
	pgTx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return newTx(pgTx, s.q.WithTx(pgTx), s.now), nil
}

// GetStack retrieves a stack by id
func (s *Store) GetStack(ctx context.Context, stackID string) (*domain.MaterialStack, error) {
	return getStack(ctx, s.q, stackID, false)
}

// ListStacksByOwner returns the owner's non-empty stacks ordered by material, tier and refined state
func (s *Store) ListStacksByOwner(ctx context.Context, ownerID string) ([]domain.MaterialStack, error) {
	return listStacksByOwner(ctx, s.q, ownerID)
}

// CreateStack stores a new stack without merging
func (s *Store) CreateStack(ctx context.Context, stack *domain.MaterialStack) error {
	if stack.ID == "" {
		return fmt.Errorf("%w: stack id is required", domain.ErrInvalidInput)
	}
	now := s.now()
	cp := *stack
	cp.CreatedAt, cp.UpdatedAt = now, now
	if err := insertStack(ctx, s.q, &cp); err != nil {
		return err
	}
	stack.CreatedAt, stack.UpdatedAt = now, now
	return nil
}

// Consume atomically deducts quantity from a stack
func (s *Store) Consume(ctx context.Context, stackID string, quantity int) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.Consume(ctx, stackID, quantity); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ProduceOrMerge credits material to the owner
func (s *Store) ProduceOrMerge(ctx context.Context, production domain.StackProduction) (string, error) {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return "", err
	}
	defer repository.SafeRollback(ctx, tx)

	id, err := tx.ProduceOrMerge(ctx, production)
	if err != nil {
		return "", err
	}
	return id, tx.Commit(ctx)
}

// GetRefiningJob retrieves a refining job by id
func (s *Store) GetRefiningJob(ctx context.Context, jobID string) (*domain.RefiningJob, error) {
	return getRefiningJob(ctx, s.q, jobID, false)
}

// ListRefiningJobs returns the owner's refining jobs, oldest first
func (s *Store) ListRefiningJobs(ctx context.Context, ownerID string) ([]domain.RefiningJob, error) {
	return listRefiningJobs(ctx, s.q, ownerID)
}

// GetManufacturingJob retrieves a manufacturing job by id
func (s *Store) GetManufacturingJob(ctx context.Context, jobID string) (*domain.ManufacturingJob, error) {
	return getManufacturingJob(ctx, s.q, jobID, false)
}

// ListManufacturingJobs returns the owner's jobs, oldest first
func (s *Store) ListManufacturingJobs(ctx context.Context, ownerID string) ([]domain.ManufacturingJob, error) {
	rows, err := s.q.ListManufacturingJobsByOwner(ctx, ownerID)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToListJobs, err)
	}
	return manufacturingJobsFromRows(rows)
}

// ListDueManufacturingJobs returns queued jobs whose ETA has passed, earliest first.
// A non-positive limit returns every due job.
func (s *Store) ListDueManufacturingJobs(ctx context.Context, now time.Time, limit int) ([]domain.ManufacturingJob, error) {
	maxJobs := int32(math.MaxInt32)
	if limit > 0 && limit < math.MaxInt32 {
		maxJobs = int32(limit)
	}
	rows, err := s.q.ListDueManufacturingJobs(ctx, generated.ListDueManufacturingJobsParams{
		DueBy:   timestamptz(now),
		MaxJobs: maxJobs,
	})
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToListJobs, err)
	}
	return manufacturingJobsFromRows(rows)
}

// MarkManufacturingCompleted flips a queued job to completed. Only one caller
// can win the conditional update.
func (s *Store) MarkManufacturingCompleted(ctx context.Context, jobID string) (bool, error) {
	affected, err := s.q.MarkManufacturingCompleted(ctx, jobID)
	if err != nil {
		return false, wrapErr(ErrMsgFailedToMarkCompleted, err)
	}
	if affected == 1 {
		return true, nil
	}

	if _, err := getManufacturingJob(ctx, s.q, jobID, false); err != nil {
		return false, err
	}
	return false, nil
}

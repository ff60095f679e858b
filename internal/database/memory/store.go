// Package memory is an in-process implementation of the material store.
// Mutations are serialized per owner with a LockManager; every write goes
// through a transaction so check-then-deduct is atomic.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/Crucible_Go/internal/concurrency"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/repository"
)

// Store keeps stacks and jobs in maps guarded by mu
type Store struct {
	mu       sync.RWMutex
	stacks   map[string]*domain.MaterialStack
	refining map[string]*domain.RefiningJob
	mfg      map[string]*domain.ManufacturingJob

	owners *concurrency.LockManager
	now    func() time.Time
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		stacks:   make(map[string]*domain.MaterialStack),
		refining: make(map[string]*domain.RefiningJob),
		mfg:      make(map[string]*domain.ManufacturingJob),
		owners:   concurrency.NewLockManager(),
		now:      time.Now,
	}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// BeginTx starts a transaction
func (s *Store) BeginTx(ctx context.Context) (repository.MaterialTx, error) {
	return newTx(s), nil
}

// GetStack returns a copy of the stack
func (s *Store) GetStack(ctx context.Context, stackID string) (*domain.MaterialStack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stacks[stackID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStackNotFound, stackID)
	}
	out := *st
	return &out, nil
}

// ListStacksByOwner returns the owner's non-empty stacks ordered by material, tier and refined state
func (s *Store) ListStacksByOwner(ctx context.Context, ownerID string) ([]domain.MaterialStack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.MaterialStack
	for _, st := range s.stacks {
		if st.OwnerID == ownerID && st.Quantity > 0 {
			out = append(out, *st)
		}
	}
	sortStacks(out)
	return out, nil
}

// CreateStack stores a new stack without merging
func (s *Store) CreateStack(ctx context.Context, stack *domain.MaterialStack) error {
	if stack.ID == "" {
		return fmt.Errorf("%w: stack id is required", domain.ErrInvalidInput)
	}

	unlock := s.owners.LockAll(stack.OwnerID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stacks[stack.ID]; exists {
		return fmt.Errorf("%w: stack %s already exists", domain.ErrInvalidInput, stack.ID)
	}
	now := s.now()
	cp := *stack
	cp.CreatedAt, cp.UpdatedAt = now, now
	s.stacks[cp.ID] = &cp
	stack.CreatedAt, stack.UpdatedAt = now, now
	return nil
}

// Consume atomically deducts quantity from a stack
func (s *Store) Consume(ctx context.Context, stackID string, quantity int) error {
	tx := newTx(s)
	defer repository.SafeRollback(ctx, tx)

	if err := tx.Consume(ctx, stackID, quantity); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ProduceOrMerge credits material to the owner
func (s *Store) ProduceOrMerge(ctx context.Context, production domain.StackProduction) (string, error) {
	tx := newTx(s)
	defer repository.SafeRollback(ctx, tx)

	id, err := tx.ProduceOrMerge(ctx, production)
	if err != nil {
		return "", err
	}
	return id, tx.Commit(ctx)
}

// GetRefiningJob returns a copy of the job
func (s *Store) GetRefiningJob(ctx context.Context, jobID string) (*domain.RefiningJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.refining[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	out := *job
	return &out, nil
}

// ListRefiningJobs returns the owner's refining jobs, oldest first
func (s *Store) ListRefiningJobs(ctx context.Context, ownerID string) ([]domain.RefiningJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.RefiningJob
	for _, job := range s.refining {
		if job.OwnerID == ownerID {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QueuedAt.Before(out[j].QueuedAt) })
	return out, nil
}

// GetManufacturingJob returns a copy of the job
func (s *Store) GetManufacturingJob(ctx context.Context, jobID string) (*domain.ManufacturingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.mfg[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	return copyManufacturingJob(job), nil
}

// ListManufacturingJobs returns the owner's jobs, oldest first
func (s *Store) ListManufacturingJobs(ctx context.Context, ownerID string) ([]domain.ManufacturingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ManufacturingJob
	for _, job := range s.mfg {
		if job.OwnerID == ownerID {
			out = append(out, *copyManufacturingJob(job))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QueuedAt.Before(out[j].QueuedAt) })
	return out, nil
}

// ListDueManufacturingJobs returns queued jobs whose ETA has passed
func (s *Store) ListDueManufacturingJobs(ctx context.Context, now time.Time, limit int) ([]domain.ManufacturingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ManufacturingJob
	for _, job := range s.mfg {
		if job.Status == domain.JobQueued && !job.CompletesAt.After(now) {
			out = append(out, *copyManufacturingJob(job))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletesAt.Before(out[j].CompletesAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkManufacturingCompleted flips a queued job to completed
func (s *Store) MarkManufacturingCompleted(ctx context.Context, jobID string) (bool, error) {
	s.mu.RLock()
	job, ok := s.mfg[jobID]
	var owner string
	if ok {
		owner = job.OwnerID
	}
	s.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}

	unlock := s.owners.LockAll(owner)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	job = s.mfg[jobID]
	if job.Status != domain.JobQueued {
		return false, nil
	}
	job.Status = domain.JobCompleted
	return true, nil
}

func sortStacks(stacks []domain.MaterialStack) {
	sort.Slice(stacks, func(i, j int) bool {
		a, b := stacks[i], stacks[j]
		if a.MaterialType != b.MaterialType {
			return a.MaterialType < b.MaterialType
		}
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.IsRefined != b.IsRefined {
			return !a.IsRefined
		}
		return a.ID < b.ID
	})
}

func copyManufacturingJob(job *domain.ManufacturingJob) *domain.ManufacturingJob {
	out := *job
	out.Stats = make(map[domain.StatName]float64, len(job.Stats))
	for k, v := range job.Stats {
		out.Stats[k] = v
	}
	out.Consumed = append([]domain.ConsumedMaterial(nil), job.Consumed...)
	return &out
}

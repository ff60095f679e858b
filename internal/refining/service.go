package refining

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/event"
	"github.com/osse101/Crucible_Go/internal/logger"
	"github.com/osse101/Crucible_Go/internal/repository"
)

// RefineRequest asks to crucible-merge the listed stacks and refine the batch
type RefineRequest struct {
	OwnerID  string   `json:"owner_id"`
	StackIDs []string `json:"stack_ids"`
	Cycles   int      `json:"cycles"`
}

// Service defines the interface for refining operations
type Service interface {
	Preview(ctx context.Context, req RefineRequest) (*RunResult, error)
	Refine(ctx context.Context, req RefineRequest) (*domain.RefiningJob, error)
	Consolidate(ctx context.Context, ownerID string, stackIDs []string) (*domain.MaterialStack, error)
	GetJob(ctx context.Context, ownerID, jobID string) (*domain.RefiningJob, error)
	ListJobs(ctx context.Context, ownerID string) ([]domain.RefiningJob, error)
	Collect(ctx context.Context, ownerID, jobID string) (*domain.RefiningJob, error)
	Cancel(ctx context.Context, ownerID, jobID string) (*domain.RefiningJob, error)
}

type service struct {
	repo          repository.Refining
	engine        *Engine
	bus           event.Bus
	cycleDuration time.Duration
	now           func() time.Time
}

// NewService creates a new refining service. bus may be nil.
func NewService(repo repository.Refining, engine *Engine, bus event.Bus, cycleDuration time.Duration) Service {
	if cycleDuration <= 0 {
		cycleDuration = DefaultCycleDuration
	}
	return &service{
		repo:          repo,
		engine:        engine,
		bus:           bus,
		cycleDuration: cycleDuration,
		now:           time.Now,
	}
}

// Preview reports what a refine would produce without touching storage
func (s *service) Preview(ctx context.Context, req RefineRequest) (*RunResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	stacks := make([]domain.MaterialStack, 0, len(req.StackIDs))
	for _, id := range req.StackIDs {
		st, err := s.repo.GetStack(ctx, id)
		if err != nil {
			return nil, err
		}
		if st.OwnerID != req.OwnerID {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, id)
		}
		stacks = append(stacks, *st)
	}

	merged, err := MergeStacks(stacks)
	if err != nil {
		return nil, err
	}
	return s.engine.Run(merged, req.Cycles)
}

// Refine consumes the listed stacks and queues a timed refining job
func (s *service) Refine(ctx context.Context, req RefineRequest) (*domain.RefiningJob, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRefineStarted, "owner_id", req.OwnerID, "stacks", len(req.StackIDs), "cycles", req.Cycles)

	if err := validateRequest(req); err != nil {
		log.Warn(LogMsgRefineRejected, "reason", err)
		return nil, err
	}

	if err := repository.CheckOwnership(ctx, s.repo, req.OwnerID, req.StackIDs...); err != nil {
		log.Warn(LogMsgRefineRejected, "reason", err)
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	stacks, err := loadOwnedStacks(ctx, tx, req.OwnerID, req.StackIDs)
	if err != nil {
		log.Warn(LogMsgRefineRejected, "reason", err)
		return nil, err
	}

	merged, err := MergeStacks(stacks)
	if err != nil {
		log.Warn(LogMsgRefineRejected, "reason", err)
		return nil, err
	}

	run, err := s.engine.Run(merged, req.Cycles)
	if err != nil {
		log.Warn(LogMsgRefineRejected, "reason", err)
		return nil, err
	}

	for _, st := range stacks {
		if st.Quantity == 0 {
			continue
		}
		if err := tx.Consume(ctx, st.ID, st.Quantity); err != nil {
			return nil, fmt.Errorf("failed to consume stack %s: %w", st.ID, err)
		}
	}

	now := s.now()
	job := &domain.RefiningJob{
		ID:             uuid.NewString(),
		OwnerID:        req.OwnerID,
		MaterialType:   merged.MaterialType,
		Tier:           merged.Tier,
		InputQuantity:  merged.Quantity,
		InputPurity:    merged.Purity,
		CyclesApplied:  run.CyclesApplied,
		OutputQuantity: run.Output.Quantity,
		OutputPurity:   run.Output.Purity,
		Waste:          run.Waste,
		Status:         domain.JobInProgress,
		QueuedAt:       now,
		CompletesAt:    now.Add(time.Duration(run.CyclesApplied) * s.cycleDuration),
	}
	if err := tx.SaveRefiningJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save refining job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgRefineQueued, "job_id", job.ID, "input", job.InputQuantity, "output", job.OutputQuantity,
		"purity", job.OutputPurity.Raw(), "completes_at", job.CompletesAt)
	s.publish(ctx, event.NewMaterialRefinedEvent(*job))
	return job, nil
}

// Consolidate merges compatible stacks into one without refining
func (s *service) Consolidate(ctx context.Context, ownerID string, stackIDs []string) (*domain.MaterialStack, error) {
	log := logger.FromContext(ctx)

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if len(stackIDs) < 2 {
		return nil, fmt.Errorf("%w: at least two stacks are required", domain.ErrInvalidInput)
	}
	if err := checkUnique(stackIDs); err != nil {
		return nil, err
	}

	if err := repository.CheckOwnership(ctx, s.repo, ownerID, stackIDs...); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	stacks, err := loadOwnedStacks(ctx, tx, ownerID, stackIDs)
	if err != nil {
		return nil, err
	}
	merged, err := MergeStacks(stacks)
	if err != nil {
		return nil, err
	}
	if merged.Quantity == 0 {
		return nil, fmt.Errorf("%w: stacks are empty", domain.ErrInvalidQuantity)
	}

	for _, st := range stacks {
		if st.Quantity == 0 {
			continue
		}
		if err := tx.Consume(ctx, st.ID, st.Quantity); err != nil {
			return nil, fmt.Errorf("failed to consume stack %s: %w", st.ID, err)
		}
	}

	id, err := tx.ProduceOrMerge(ctx, domain.StackProduction{
		OwnerID:      ownerID,
		MaterialType: merged.MaterialType,
		Tier:         merged.Tier,
		Purity:       merged.Purity,
		Quantity:     merged.Quantity,
		IsRefined:    merged.IsRefined,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store consolidated stack: %w", err)
	}
	result, err := tx.GetStackForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgConsolidated, "owner_id", ownerID, "stack_id", id, "merged", len(stacks), "quantity", result.Quantity)
	s.publish(ctx, event.NewMaterialConsolidatedEvent(*result, stackIDs))
	return result, nil
}

// GetJob returns the job with its status derived from the clock
func (s *service) GetJob(ctx context.Context, ownerID, jobID string) (*domain.RefiningJob, error) {
	job, err := s.repo.GetRefiningJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	job.Status = job.StatusAt(s.now())
	return job, nil
}

// ListJobs returns the owner's jobs with derived statuses
func (s *service) ListJobs(ctx context.Context, ownerID string) ([]domain.RefiningJob, error) {
	jobs, err := s.repo.ListRefiningJobs(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range jobs {
		jobs[i].Status = jobs[i].StatusAt(now)
	}
	return jobs, nil
}

// Collect credits a finished job's output to the owner
func (s *service) Collect(ctx context.Context, ownerID, jobID string) (*domain.RefiningJob, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	job, err := tx.GetRefiningJobForUpdate(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}

	now := s.now()
	switch {
	case job.CollectedAt != nil:
		return nil, fmt.Errorf("%w: %s", domain.ErrJobAlreadyClaimed, jobID)
	case job.Status == domain.JobFailed:
		return nil, fmt.Errorf("%w: job %s", domain.ErrJobNotComplete, job.FailureReason)
	case job.StatusAt(now) != domain.JobCompleted:
		return nil, fmt.Errorf("%w: ready at %s", domain.ErrJobNotComplete, job.CompletesAt.Format(time.RFC3339))
	}

	stackID, err := tx.ProduceOrMerge(ctx, domain.StackProduction{
		OwnerID:      job.OwnerID,
		MaterialType: job.MaterialType,
		Tier:         job.Tier,
		Purity:       job.OutputPurity,
		Quantity:     job.OutputQuantity,
		IsRefined:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to credit refined output: %w", err)
	}

	job.Status = domain.JobCompleted
	job.OutputStackID = stackID
	job.CollectedAt = &now
	if err := tx.SaveRefiningJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save refining job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgRefineCollected, "job_id", job.ID, "stack_id", stackID, "quantity", job.OutputQuantity)
	s.publish(ctx, event.NewRefiningCollectedEvent(*job))
	return job, nil
}

// Cancel abandons an unfinished job. Consumed material is not refunded.
func (s *service) Cancel(ctx context.Context, ownerID, jobID string) (*domain.RefiningJob, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	job, err := tx.GetRefiningJobForUpdate(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	if job.StatusAt(s.now()) != domain.JobInProgress {
		return nil, fmt.Errorf("%w: status %s", domain.ErrJobNotCancellable, job.StatusAt(s.now()))
	}

	job.Status = domain.JobFailed
	job.FailureReason = domain.JobFailureCancelled
	if err := tx.SaveRefiningJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save refining job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgRefineCancelled, "job_id", job.ID, "owner_id", ownerID)
	return job, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func validateRequest(req RefineRequest) error {
	if req.OwnerID == "" {
		return fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if len(req.StackIDs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, ErrMsgNoStacks)
	}
	if req.Cycles < 1 || req.Cycles > MaxCyclesPerJob {
		return fmt.Errorf("%w: "+ErrMsgCyclesOutOfRange, domain.ErrInvalidQuantity, MaxCyclesPerJob)
	}
	return checkUnique(req.StackIDs)
}

func checkUnique(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, ErrMsgDuplicateStack, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// loadOwnedStacks locks the stacks in id order and checks ownership
func loadOwnedStacks(ctx context.Context, tx repository.MaterialTx, ownerID string, ids []string) ([]domain.MaterialStack, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	stacks := make([]domain.MaterialStack, 0, len(sorted))
	for _, id := range sorted {
		st, err := tx.GetStackForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if st.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, id)
		}
		stacks = append(stacks, *st)
	}
	return stacks, nil
}

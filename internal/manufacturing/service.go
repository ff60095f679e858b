package manufacturing

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

// QueueRequest asks to build BatchSize units of a blueprint from the selected stacks
type QueueRequest struct {
	OwnerID     string                         `json:"owner_id"`
	BlueprintID string                         `json:"blueprint_id"`
	BatchSize   int                            `json:"batch_size"`
	Selections  map[domain.MaterialType]string `json:"selections"`
}

// Service defines the interface for manufacturing operations
type Service interface {
	Plan(ctx context.Context, req QueueRequest) (*domain.ManufacturingJob, error)
	Queue(ctx context.Context, req QueueRequest) (*domain.ManufacturingJob, error)
	Get(ctx context.Context, ownerID, jobID string) (*domain.ManufacturingJob, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ManufacturingJob, error)
	Cancel(ctx context.Context, ownerID, jobID string) (*domain.ManufacturingJob, error)
	Collect(ctx context.Context, ownerID, jobID string) (*domain.ManufacturingJob, error)
	CompleteDue(ctx context.Context, limit int) (int, error)
}

type service struct {
	repo        repository.Manufacturing
	catalog     Catalog
	synthesizer *Synthesizer
	bonuses     BonusProvider
	bus         event.Bus
	now         func() time.Time
}

// NewService creates a new manufacturing service. bonuses and bus may be nil.
func NewService(repo repository.Manufacturing, catalog Catalog, bonuses BonusProvider, bus event.Bus) Service {
	return &service{
		repo:        repo,
		catalog:     catalog,
		synthesizer: NewSynthesizer(catalog),
		bonuses:     bonuses,
		bus:         bus,
		now:         time.Now,
	}
}

// Plan computes the job a Queue would create without consuming anything
func (s *service) Plan(ctx context.Context, req QueueRequest) (*domain.ManufacturingJob, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	bp, err := s.catalog.Blueprint(ctx, req.BlueprintID)
	if err != nil {
		return nil, err
	}

	sel := make(Selection, len(req.Selections))
	for mt, id := range req.Selections {
		st, err := s.repo.GetStack(ctx, id)
		if err != nil {
			return nil, err
		}
		if st.OwnerID != req.OwnerID {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, id)
		}
		sel[mt] = *st
	}

	bonus := s.bonusFor(ctx, req.OwnerID)
	syn, err := s.synthesizer.Synthesize(ctx, bp, sel, req.BatchSize, bonus.Stat)
	if err != nil {
		return nil, err
	}

	jobs, err := s.repo.ListManufacturingJobs(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	startsAt := now
	for _, j := range jobs {
		if !j.Status.Terminal() && j.CompletesAt.After(startsAt) {
			startsAt = j.CompletesAt
		}
	}

	return &domain.ManufacturingJob{
		OwnerID:     req.OwnerID,
		BlueprintID: bp.ID,
		BatchSize:   req.BatchSize,
		Stats:       syn.Stats,
		Consumed:    syn.Consumed,
		Status:      domain.JobPlanning,
		StartsAt:    startsAt,
		CompletesAt: startsAt.Add(Duration(bp.Tier, bonus.Speed)),
	}, nil
}

// Queue validates the request, consumes every selected stack atomically and stores the job
func (s *service) Queue(ctx context.Context, req QueueRequest) (*domain.ManufacturingJob, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgQueueRequested, "owner_id", req.OwnerID, "blueprint_id", req.BlueprintID, "batch", req.BatchSize)

	if err := validateRequest(req); err != nil {
		log.Warn(LogMsgQueueRejected, "reason", err)
		return nil, err
	}
	bp, err := s.catalog.Blueprint(ctx, req.BlueprintID)
	if err != nil {
		log.Warn(LogMsgQueueRejected, "reason", err)
		return nil, err
	}
	if err := repository.CheckOwnership(ctx, s.repo, req.OwnerID, selectedStackIDs(req.Selections)...); err != nil {
		log.Warn(LogMsgQueueRejected, "reason", err)
		return nil, err
	}
	bonus := s.bonusFor(ctx, req.OwnerID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	sel, err := lockSelection(ctx, tx, req.OwnerID, req.Selections)
	if err != nil {
		log.Warn(LogMsgQueueRejected, "reason", err)
		return nil, err
	}

	syn, err := s.synthesizer.Synthesize(ctx, bp, sel, req.BatchSize, bonus.Stat)
	if err != nil {
		log.Warn(LogMsgQueueRejected, "reason", err)
		return nil, err
	}

	for _, c := range syn.Consumed {
		if c.Quantity == 0 {
			continue
		}
		if err := tx.Consume(ctx, c.StackID, c.Quantity); err != nil {
			return nil, fmt.Errorf("failed to consume stack %s: %w", c.StackID, err)
		}
	}

	now := s.now()
	startsAt, err := tx.LatestManufacturingCompletion(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read manufacturing queue: %w", err)
	}
	if startsAt.Before(now) {
		startsAt = now
	}

	job := &domain.ManufacturingJob{
		ID:          uuid.NewString(),
		OwnerID:     req.OwnerID,
		BlueprintID: bp.ID,
		BatchSize:   req.BatchSize,
		Stats:       syn.Stats,
		Consumed:    syn.Consumed,
		Status:      domain.JobQueued,
		QueuedAt:    now,
		StartsAt:    startsAt,
		CompletesAt: startsAt.Add(Duration(bp.Tier, bonus.Speed)),
	}
	if err := tx.SaveManufacturingJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save manufacturing job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgJobQueued, "job_id", job.ID, "blueprint_id", bp.ID, "starts_at", job.StartsAt, "completes_at", job.CompletesAt)
	s.publish(ctx, event.NewManufacturingEvent(event.ManufacturingQueued, *job))

	job.Status = job.StatusAt(now)
	return job, nil
}

// Get returns the job with its status derived from the clock
func (s *service) Get(ctx context.Context, ownerID, jobID string) (*domain.ManufacturingJob, error) {
	job, err := s.repo.GetManufacturingJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	job.Status = job.StatusAt(s.now())
	return job, nil
}

// ListByOwner returns the owner's jobs, oldest first, with derived statuses
func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]domain.ManufacturingJob, error) {
	jobs, err := s.repo.ListManufacturingJobs(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range jobs {
		jobs[i].Status = jobs[i].StatusAt(now)
	}
	return jobs, nil
}

// Cancel fails a job that has not completed. Consumed materials are not refunded.
func (s *service) Cancel(ctx context.Context, ownerID, jobID string) (*domain.ManufacturingJob, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	job, err := tx.GetManufacturingJobForUpdate(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	status := job.StatusAt(s.now())
	if status != domain.JobQueued && status != domain.JobInProgress {
		return nil, fmt.Errorf("%w: status %s", domain.ErrJobNotCancellable, status)
	}

	job.Status = domain.JobFailed
	job.FailureReason = domain.JobFailureCancelled
	if err := tx.SaveManufacturingJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save manufacturing job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgJobCancelled, "job_id", job.ID, "owner_id", ownerID)
	s.publish(ctx, event.NewManufacturingEvent(event.ManufacturingCancelled, *job))
	return job, nil
}

// Collect claims a completed job
func (s *service) Collect(ctx context.Context, ownerID, jobID string) (*domain.ManufacturingJob, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	job, err := tx.GetManufacturingJobForUpdate(ctx, jobID)
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

	// the sweeper announces completion; a job collected before it runs is announced here
	announce := job.Status != domain.JobCompleted
	job.Status = domain.JobCompleted
	job.CollectedAt = &now
	if err := tx.SaveManufacturingJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save manufacturing job: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgJobCollected, "job_id", job.ID, "owner_id", ownerID)
	if announce {
		s.publish(ctx, event.NewManufacturingEvent(event.ManufacturingCompleted, *job))
	}
	return job, nil
}

// CompleteDue persists Completed for queued jobs past their ETA and announces each once
func (s *service) CompleteDue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultSweepLimit
	}
	due, err := s.repo.ListDueManufacturingJobs(ctx, s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list due jobs: %w", err)
	}

	completed := 0
	for _, job := range due {
		flipped, err := s.repo.MarkManufacturingCompleted(ctx, job.ID)
		if err != nil {
			return completed, fmt.Errorf("failed to complete job %s: %w", job.ID, err)
		}
		if !flipped {
			continue
		}
		completed++
		job.Status = domain.JobCompleted
		s.publish(ctx, event.NewManufacturingEvent(event.ManufacturingCompleted, job))
	}

	if completed > 0 {
		logger.FromContext(ctx).Info(LogMsgJobsCompleted, "count", completed)
	}
	return completed, nil
}

func (s *service) bonusFor(ctx context.Context, ownerID string) Bonus {
	if s.bonuses == nil {
		return Bonus{}
	}
	b, err := s.bonuses.Bonus(ctx, ownerID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgBonusLookupFailed, "owner_id", ownerID, "error", err)
		return Bonus{}
	}
	return b
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func validateRequest(req QueueRequest) error {
	if req.OwnerID == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgOwnerRequired)
	}
	if req.BlueprintID == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgBlueprintRequired)
	}
	if req.BatchSize < 1 || req.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: "+ErrMsgBatchOutOfRange, domain.ErrInvalidQuantity, MaxBatchSize)
	}
	return nil
}

func selectedStackIDs(selections map[domain.MaterialType]string) []string {
	ids := make([]string, 0, len(selections))
	for _, id := range selections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// lockSelection locks the selected stacks in id order and checks ownership
func lockSelection(ctx context.Context, tx repository.MaterialTx, ownerID string, selections map[domain.MaterialType]string) (Selection, error) {
	types := make([]domain.MaterialType, 0, len(selections))
	for mt := range selections {
		types = append(types, mt)
	}
	sort.Slice(types, func(i, j int) bool { return selections[types[i]] < selections[types[j]] })

	sel := make(Selection, len(selections))
	seen := make(map[string]struct{}, len(selections))
	for _, mt := range types {
		id := selections[mt]
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: stack %s selected twice", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}

		st, err := tx.GetStackForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if st.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, id)
		}
		sel[mt] = *st
	}
	return sel, nil
}

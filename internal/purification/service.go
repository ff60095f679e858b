package purification

import (
	"context"
	"fmt"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/event"
	"github.com/osse101/Crucible_Go/internal/logger"
	"github.com/osse101/Crucible_Go/internal/quality"
	"github.com/osse101/Crucible_Go/internal/repository"
)

// PurifyRequest is one purification attempt against a whole stack
type PurifyRequest struct {
	OwnerID string          `json:"owner_id"`
	StackID string          `json:"stack_id"`
	Amount  int             `json:"amount"`
	Mode    domain.RiskMode `json:"mode"`
}

// PurifyResult pairs the roll with the stack as it stands afterwards
type PurifyResult struct {
	Attempt *Attempt             `json:"attempt"`
	Stack   domain.MaterialStack `json:"stack"`
}

// OddsPreview describes what an attempt would cost and risk
type OddsPreview struct {
	Mode   domain.RiskMode     `json:"mode"`
	Grade  domain.QualityGrade `json:"grade"`
	Base   Odds                `json:"base"`
	Odds   Odds                `json:"odds"`
	Config domain.RiskConfig   `json:"config"`
}

// Service defines the interface for purification operations
type Service interface {
	Purify(ctx context.Context, req PurifyRequest) (*PurifyResult, error)
	Preview(ctx context.Context, ownerID, stackID string) ([]OddsPreview, error)
}

type service struct {
	repo   repository.MaterialStack
	engine *Engine
	bus    event.Bus
}

// NewService creates a new purification service. bus may be nil.
func NewService(repo repository.MaterialStack, engine *Engine, bus event.Bus) Service {
	return &service{
		repo:   repo,
		engine: engine,
		bus:    bus,
	}
}

// Purify rolls one attempt, deducts its cost and rewrites the stack purity
func (s *service) Purify(ctx context.Context, req PurifyRequest) (*PurifyResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPurifyRequested, "owner_id", req.OwnerID, "stack_id", req.StackID, "amount", req.Amount, "mode", req.Mode)

	if req.OwnerID == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgOwnerRequired)
	}
	if req.StackID == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgStackIDRequired)
	}
	if _, err := req.Mode.Config(); err != nil {
		return nil, err
	}

	if err := repository.CheckOwnership(ctx, s.repo, req.OwnerID, req.StackID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	stack, err := tx.GetStackForUpdate(ctx, req.StackID)
	if err != nil {
		return nil, err
	}
	if stack.OwnerID != req.OwnerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, req.StackID)
	}

	attempt, err := s.engine.Attempt(stack.Purity, req.Mode, req.Amount, stack.Quantity)
	if err != nil {
		log.Warn(LogMsgPurifyRejected, "reason", err, "available", stack.Quantity)
		return nil, err
	}

	if attempt.Cost > 0 {
		if err := tx.Consume(ctx, stack.ID, attempt.Cost); err != nil {
			return nil, fmt.Errorf("failed to deduct purification cost: %w", err)
		}
	}
	if attempt.NewPurity != attempt.OldPurity {
		if err := tx.UpdatePurity(ctx, stack.ID, attempt.NewPurity); err != nil {
			return nil, fmt.Errorf("failed to update purity: %w", err)
		}
	}

	updated, err := tx.GetStackForUpdate(ctx, stack.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgPurifyResolved, "stack_id", stack.ID, "outcome", attempt.Outcome, "cost", attempt.Cost,
		"old_purity", attempt.OldPurity.Raw(), "new_purity", attempt.NewPurity.Raw())

	s.publish(ctx, event.NewMaterialPurifiedEvent(domain.MaterialPurifiedPayload{
		OwnerID:      req.OwnerID,
		StackID:      stack.ID,
		MaterialType: string(stack.MaterialType),
		RiskMode:     string(req.Mode),
		Outcome:      string(attempt.Outcome),
		Cost:         attempt.Cost,
		OldPurity:    attempt.OldPurity.Raw(),
		NewPurity:    attempt.NewPurity.Raw(),
		OldGrade:     string(attempt.OldGrade),
		NewGrade:     string(attempt.NewGrade),
	}))

	return &PurifyResult{Attempt: attempt, Stack: *updated}, nil
}

// Preview lists the odds of every risk mode for the stack
func (s *service) Preview(ctx context.Context, ownerID, stackID string) ([]OddsPreview, error) {
	stack, err := s.repo.GetStack(ctx, stackID)
	if err != nil {
		return nil, err
	}
	if stack.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, stackID)
	}

	out := make([]OddsPreview, 0, len(domain.AllRiskModes))
	for _, mode := range domain.AllRiskModes {
		cfg, err := mode.Config()
		if err != nil {
			return nil, err
		}
		odds, err := AdjustedOdds(stack.Purity, mode)
		if err != nil {
			return nil, err
		}
		out = append(out, OddsPreview{
			Mode:   mode,
			Grade:  quality.GradeOf(stack.Purity),
			Base:   BaseOdds(stack.Purity),
			Odds:   odds,
			Config: cfg,
		})
	}
	return out, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	}
}

package material

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Crucible_Go/internal/catalog"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/logger"
	"github.com/osse101/Crucible_Go/internal/quality"
	"github.com/osse101/Crucible_Go/internal/repository"
	"github.com/osse101/Crucible_Go/internal/utils"
)

// ExtractRequest credits freshly extracted ore to an owner.
// A nil Purity is rolled between MinExtractedPurity and MaxExtractedPurity.
type ExtractRequest struct {
	OwnerID      string              `json:"owner_id"`
	MaterialType domain.MaterialType `json:"material_type"`
	Tier         domain.Tier         `json:"tier"`
	Quantity     int                 `json:"quantity"`
	Purity       *float64            `json:"purity,omitempty"`
}

// StackView is a stack together with its derived quality information
type StackView struct {
	domain.MaterialStack
	Grade      domain.QualityGrade   `json:"grade"`
	GradeName  string                `json:"grade_name"`
	Refinement domain.RefinementInfo `json:"refinement"`
}

// MaterialLookup resolves catalog material definitions
type MaterialLookup interface {
	Material(materialType domain.MaterialType) (catalog.MaterialDef, error)
}

// Service defines the interface for inventory operations on material stacks
type Service interface {
	Extract(ctx context.Context, req ExtractRequest) (*StackView, error)
	List(ctx context.Context, ownerID string) ([]StackView, error)
	Get(ctx context.Context, ownerID, stackID string) (*StackView, error)
}

type service struct {
	repo      repository.MaterialStack
	materials MaterialLookup
	rnd       utils.RandomSource
	now       func() time.Time
}

// NewService creates a new material service
func NewService(repo repository.MaterialStack, materials MaterialLookup, rnd utils.RandomSource) Service {
	return &service{
		repo:      repo,
		materials: materials,
		rnd:       rnd,
		now:       time.Now,
	}
}

// Extract creates a new raw stack. Extracted stacks are never merged on creation.
func (s *service) Extract(ctx context.Context, req ExtractRequest) (*StackView, error) {
	log := logger.FromContext(ctx)

	if err := s.validateExtract(req); err != nil {
		log.Warn(LogMsgExtractRejected, "owner_id", req.OwnerID, "material_type", req.MaterialType, "error", err)
		return nil, err
	}

	purity := s.rollPurity()
	if req.Purity != nil {
		purity = *req.Purity
	}

	now := s.now()
	stack := &domain.MaterialStack{
		ID:           uuid.New().String(),
		OwnerID:      req.OwnerID,
		MaterialType: req.MaterialType,
		Tier:         req.Tier,
		Purity:       domain.NewPurity(purity),
		Quantity:     req.Quantity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateStack(ctx, stack); err != nil {
		return nil, fmt.Errorf("failed to create stack: %w", err)
	}

	log.Info(LogMsgExtracted,
		"owner_id", stack.OwnerID,
		"stack_id", stack.ID,
		"material_type", stack.MaterialType,
		"tier", stack.Tier,
		"quantity", stack.Quantity,
		"purity", stack.Purity.Value)
	view := NewStackView(*stack)
	return &view, nil
}

// List returns the owner's non-empty stacks
func (s *service) List(ctx context.Context, ownerID string) ([]StackView, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgOwnerRequired)
	}
	stacks, err := s.repo.ListStacksByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]StackView, 0, len(stacks))
	for _, st := range stacks {
		views = append(views, NewStackView(st))
	}
	return views, nil
}

// Get returns one of the owner's stacks
func (s *service) Get(ctx context.Context, ownerID, stackID string) (*StackView, error) {
	if stackID == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgStackIDRequired)
	}
	stack, err := s.repo.GetStack(ctx, stackID)
	if err != nil {
		return nil, err
	}
	if stack.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, stackID)
	}
	view := NewStackView(*stack)
	return &view, nil
}

// NewStackView derives grade and refinement information for a stack
func NewStackView(stack domain.MaterialStack) StackView {
	grade := quality.GradeOf(stack.Purity)
	return StackView{
		MaterialStack: stack,
		Grade:         grade,
		GradeName:     quality.GradeDisplayName(grade),
		Refinement:    quality.RefinementLevelOf(stack.Purity),
	}
}

func (s *service) validateExtract(req ExtractRequest) error {
	if req.OwnerID == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgOwnerRequired)
	}
	if _, err := s.materials.Material(req.MaterialType); err != nil {
		return err
	}
	if !req.Tier.Valid() {
		return fmt.Errorf("%w: "+ErrMsgInvalidTier, domain.ErrInvalidInput, domain.MinTier, domain.MaxTier)
	}
	if req.Quantity <= 0 || req.Quantity > MaxExtractQuantity {
		return fmt.Errorf("%w: "+ErrMsgQuantityRange, domain.ErrInvalidQuantity, MaxExtractQuantity)
	}
	if req.Purity != nil && (*req.Purity < 0 || *req.Purity > domain.MaxPurity) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgPurityRange)
	}
	return nil
}

func (s *service) rollPurity() float64 {
	return MinExtractedPurity + s.rnd.Next()*(MaxExtractedPurity-MinExtractedPurity)
}

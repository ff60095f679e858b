package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/Crucible_Go/internal/database/generated"
	"github.com/osse101/Crucible_Go/internal/domain"
)

func stackFromRow(row generated.MaterialStack) *domain.MaterialStack {
	return &domain.MaterialStack{
		ID:           row.StackID,
		OwnerID:      row.OwnerID,
		MaterialType: domain.MaterialType(row.MaterialType),
		Tier:         domain.Tier(row.Tier),
		Purity: domain.Purity{
			Value:           row.Purity,
			RefinementLevel: int(row.RefinementLevel),
			LevelProgress:   row.LevelProgress,
		},
		Quantity:  int(row.Quantity),
		IsRefined: row.IsRefined,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func getStack(ctx context.Context, q *generated.Queries, stackID string, forUpdate bool) (*domain.MaterialStack, error) {
	var (
		row generated.MaterialStack
		err error
	)
	if forUpdate {
		row, err = q.GetStackForUpdate(ctx, stackID)
	} else {
		row, err = q.GetStack(ctx, stackID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrStackNotFound, stackID)
		}
		return nil, wrapErr(ErrMsgFailedToGetStack, err)
	}
	return stackFromRow(row), nil
}

// stackOwner returns the owner of a stack without locking it
func stackOwner(ctx context.Context, q *generated.Queries, stackID string) (string, error) {
	owner, err := q.GetStackOwner(ctx, stackID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", domain.ErrStackNotFound, stackID)
		}
		return "", wrapErr(ErrMsgFailedToGetStack, err)
	}
	return owner, nil
}

func listStacksByOwner(ctx context.Context, q *generated.Queries, ownerID string) ([]domain.MaterialStack, error) {
	rows, err := q.ListStacksByOwner(ctx, ownerID)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToListStacks, err)
	}

	stacks := make([]domain.MaterialStack, 0, len(rows))
	for _, row := range rows {
		stacks = append(stacks, *stackFromRow(row))
	}
	return stacks, nil
}

func insertStack(ctx context.Context, q *generated.Queries, st *domain.MaterialStack) error {
	err := q.InsertStack(ctx, generated.InsertStackParams{
		StackID:         st.ID,
		OwnerID:         st.OwnerID,
		MaterialType:    string(st.MaterialType),
		Tier:            int16(st.Tier),
		Purity:          st.Purity.Value,
		RefinementLevel: int32(st.Purity.RefinementLevel),
		LevelProgress:   st.Purity.LevelProgress,
		Quantity:        int32(st.Quantity),
		IsRefined:       st.IsRefined,
		CreatedAt:       timestamptz(st.CreatedAt),
		UpdatedAt:       timestamptz(st.UpdatedAt),
	})
	if err != nil {
		return wrapErr(ErrMsgFailedToCreateStack, err)
	}
	return nil
}

// consume deducts quantity with a single conditional update, so the check and
// the deduction cannot be split by a concurrent caller
func consume(ctx context.Context, q *generated.Queries, stackID string, quantity int, now time.Time) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: consume %d", domain.ErrInvalidQuantity, quantity)
	}

	affected, err := q.ConsumeStack(ctx, generated.ConsumeStackParams{
		Quantity:  int32(quantity),
		UpdatedAt: timestamptz(now),
		StackID:   stackID,
	})
	if err != nil {
		return wrapErr(ErrMsgFailedToConsume, err)
	}
	if affected == 1 {
		return nil
	}

	st, err := getStack(ctx, q, stackID, false)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: stack %s has %d, need %d", domain.ErrInsufficientMaterial, stackID, st.Quantity, quantity)
}

// produceOrMerge credits a production to the oldest fungible stack of the owner,
// creating a stack when there is none. Callers hold the owner lock.
func produceOrMerge(ctx context.Context, q *generated.Queries, p domain.StackProduction, now time.Time) (string, error) {
	row, err := q.FindMergeTargetForUpdate(ctx, generated.FindMergeTargetForUpdateParams{
		OwnerID:      p.OwnerID,
		MaterialType: string(p.MaterialType),
		Tier:         int16(p.Tier),
		IsRefined:    p.IsRefined,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		st := &domain.MaterialStack{
			ID:           uuid.NewString(),
			OwnerID:      p.OwnerID,
			MaterialType: p.MaterialType,
			Tier:         p.Tier,
			Purity:       p.Purity,
			Quantity:     p.Quantity,
			IsRefined:    p.IsRefined,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := insertStack(ctx, q, st); err != nil {
			return "", err
		}
		return st.ID, nil
	}
	if err != nil {
		return "", wrapErr(ErrMsgFailedToGetStack, err)
	}

	target := stackFromRow(row)
	purity := domain.BlendPurity(target.Purity, target.Quantity, p.Purity, p.Quantity)
	err = q.MergeIntoStack(ctx, generated.MergeIntoStackParams{
		Added:           int32(p.Quantity),
		Purity:          purity.Value,
		RefinementLevel: int32(purity.RefinementLevel),
		LevelProgress:   purity.LevelProgress,
		UpdatedAt:       timestamptz(now),
		StackID:         target.ID,
	})
	if err != nil {
		return "", wrapErr(ErrMsgFailedToMergeStack, err)
	}
	return target.ID, nil
}

func updatePurity(ctx context.Context, q *generated.Queries, stackID string, purity domain.Purity, now time.Time) error {
	affected, err := q.UpdateStackPurity(ctx, generated.UpdateStackPurityParams{
		StackID:         stackID,
		Purity:          purity.Value,
		RefinementLevel: int32(purity.RefinementLevel),
		LevelProgress:   purity.LevelProgress,
		UpdatedAt:       timestamptz(now),
	})
	if err != nil {
		return wrapErr(ErrMsgFailedToUpdatePurity, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrStackNotFound, stackID)
	}
	return nil
}

func validateProduction(p domain.StackProduction) error {
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: produce %d", domain.ErrInvalidQuantity, p.Quantity)
	}
	if !p.Tier.Valid() || p.OwnerID == "" || p.MaterialType == "" {
		return fmt.Errorf("%w: incomplete production", domain.ErrInvalidInput)
	}
	return nil
}

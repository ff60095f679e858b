package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Crucible_Go/internal/database/generated"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/repository"
)

// tx wraps a pgx transaction. The owner advisory lock is taken on first touch
// and binds the tx to that owner; rows are then locked with FOR UPDATE.
type tx struct {
	tx    pgx.Tx
	q     *generated.Queries
	now   func() time.Time
	owner string
}

var _ repository.MaterialTx = (*tx)(nil)

func newTx(pgTx pgx.Tx, q *generated.Queries, now func() time.Time) *tx {
	return &tx{tx: pgTx, q: q, now: now}
}

func (t *tx) lockOwner(ctx context.Context, ownerID string) error {
	if t.owner != "" {
		if t.owner == ownerID {
			return nil
		}
		return fmt.Errorf("%w: tx holds %s, refused %s", domain.ErrNotOwner, t.owner, ownerID)
	}
	if err := lockOwner(ctx, t.q, ownerID); err != nil {
		return err
	}
	t.owner = ownerID
	return nil
}

// lockStackOwner looks up the owner of a stack and takes its lock before the row lock
func (t *tx) lockStackOwner(ctx context.Context, stackID string) error {
	owner, err := stackOwner(ctx, t.q, stackID)
	if err != nil {
		return err
	}
	return t.lockOwner(ctx, owner)
}

func (t *tx) GetStackForUpdate(ctx context.Context, stackID string) (*domain.MaterialStack, error) {
	if err := t.lockStackOwner(ctx, stackID); err != nil {
		return nil, err
	}
	return getStack(ctx, t.q, stackID, true)
}

func (t *tx) Consume(ctx context.Context, stackID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: consume %d", domain.ErrInvalidQuantity, quantity)
	}
	if err := t.lockStackOwner(ctx, stackID); err != nil {
		return err
	}
	return consume(ctx, t.q, stackID, quantity, t.now())
}

func (t *tx) ProduceOrMerge(ctx context.Context, p domain.StackProduction) (string, error) {
	if err := validateProduction(p); err != nil {
		return "", err
	}
	if err := t.lockOwner(ctx, p.OwnerID); err != nil {
		return "", err
	}
	return produceOrMerge(ctx, t.q, p, t.now())
}

func (t *tx) UpdatePurity(ctx context.Context, stackID string, purity domain.Purity) error {
	if err := t.lockStackOwner(ctx, stackID); err != nil {
		return err
	}
	return updatePurity(ctx, t.q, stackID, purity, t.now())
}

func (t *tx) SaveRefiningJob(ctx context.Context, job *domain.RefiningJob) error {
	if err := t.lockOwner(ctx, job.OwnerID); err != nil {
		return err
	}
	return saveRefiningJob(ctx, t.q, job)
}

func (t *tx) GetRefiningJobForUpdate(ctx context.Context, jobID string) (*domain.RefiningJob, error) {
	job, err := getRefiningJob(ctx, t.q, jobID, false)
	if err != nil {
		return nil, err
	}
	if err := t.lockOwner(ctx, job.OwnerID); err != nil {
		return nil, err
	}
	return getRefiningJob(ctx, t.q, jobID, true)
}

func (t *tx) SaveManufacturingJob(ctx context.Context, job *domain.ManufacturingJob) error {
	if err := t.lockOwner(ctx, job.OwnerID); err != nil {
		return err
	}
	return saveManufacturingJob(ctx, t.q, job)
}

func (t *tx) GetManufacturingJobForUpdate(ctx context.Context, jobID string) (*domain.ManufacturingJob, error) {
	job, err := getManufacturingJob(ctx, t.q, jobID, false)
	if err != nil {
		return nil, err
	}
	if err := t.lockOwner(ctx, job.OwnerID); err != nil {
		return nil, err
	}
	return getManufacturingJob(ctx, t.q, jobID, true)
}

func (t *tx) LatestManufacturingCompletion(ctx context.Context, ownerID string) (time.Time, error) {
	if err := t.lockOwner(ctx, ownerID); err != nil {
		return time.Time{}, err
	}
	return latestManufacturingCompletion(ctx, t.q, ownerID)
}

func (t *tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return wrapErr(ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

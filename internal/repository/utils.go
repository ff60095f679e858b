package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error.
// Rolling back an already committed transaction is not an error.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		if errors.Is(err, domain.ErrTxClosed) || err.Error() == domain.ErrMsgTxClosed {
			return
		}
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// CheckOwnership reads the stacks without locking and rejects any that belong
// to someone else. Callers run it before BeginTx so a request naming a foreign
// stack never takes that owner's lock.
func CheckOwnership(ctx context.Context, repo MaterialStack, ownerID string, stackIDs ...string) error {
	for _, id := range stackIDs {
		st, err := repo.GetStack(ctx, id)
		if err != nil {
			return err
		}
		if st.OwnerID != ownerID {
			return fmt.Errorf("%w: %s", domain.ErrNotOwner, id)
		}
	}
	return nil
}

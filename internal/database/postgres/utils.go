package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/osse101/Crucible_Go/internal/database/generated"
	"github.com/osse101/Crucible_Go/internal/domain"
)

// wrapErr wraps a database error with op, translating lock conflicts into domain errors
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrorCodeDeadlockDetected, PgErrorCodeSerializationFailure:
			return fmt.Errorf("%w: %s: %s", domain.ErrDeadlockDetected, op, pgErr.Message)
		case PgErrorCodeUniqueViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, op, pgErr.Detail)
		}
	}
	if errors.Is(err, pgx.ErrTxClosed) {
		return domain.ErrTxClosed
	}
	return fmt.Errorf("%s: %w", op, err)
}

// lockOwner takes a transaction-scoped advisory lock on the owner. Every write
// path takes it first, so an owner's mutations run one transaction at a time.
func lockOwner(ctx context.Context, q *generated.Queries, ownerID string) error {
	if err := q.LockOwner(ctx, ownerID); err != nil {
		return wrapErr(ErrMsgFailedToLockOwner, err)
	}
	return nil
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func nullableTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timestamptz(*t)
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

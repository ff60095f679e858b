package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Crucible_Go/internal/database/generated"
	"github.com/osse101/Crucible_Go/internal/domain"
)

// Refining purities are stored in the single-number encoding so levels survive
func refiningJobFromRow(row generated.RefiningJob) *domain.RefiningJob {
	return &domain.RefiningJob{
		ID:             row.JobID,
		OwnerID:        row.OwnerID,
		MaterialType:   domain.MaterialType(row.MaterialType),
		Tier:           domain.Tier(row.Tier),
		InputQuantity:  int(row.InputQuantity),
		InputPurity:    domain.PurityFromRaw(row.InputPurity),
		CyclesApplied:  int(row.CyclesApplied),
		OutputQuantity: int(row.OutputQuantity),
		OutputPurity:   domain.PurityFromRaw(row.OutputPurity),
		Waste:          int(row.Waste),
		Status:         domain.JobStatus(row.Status),
		FailureReason:  row.FailureReason,
		OutputStackID:  row.OutputStackID,
		QueuedAt:       row.QueuedAt.Time,
		CompletesAt:    row.CompletesAt.Time,
		CollectedAt:    timePtr(row.CollectedAt),
	}
}

func getRefiningJob(ctx context.Context, q *generated.Queries, jobID string, forUpdate bool) (*domain.RefiningJob, error) {
	var (
		row generated.RefiningJob
		err error
	)
	if forUpdate {
		row, err = q.GetRefiningJobForUpdate(ctx, jobID)
	} else {
		row, err = q.GetRefiningJob(ctx, jobID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
		}
		return nil, wrapErr(ErrMsgFailedToGetJob, err)
	}
	return refiningJobFromRow(row), nil
}

func listRefiningJobs(ctx context.Context, q *generated.Queries, ownerID string) ([]domain.RefiningJob, error) {
	rows, err := q.ListRefiningJobsByOwner(ctx, ownerID)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToListJobs, err)
	}

	jobs := make([]domain.RefiningJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, *refiningJobFromRow(row))
	}
	return jobs, nil
}

func saveRefiningJob(ctx context.Context, q *generated.Queries, job *domain.RefiningJob) error {
	err := q.UpsertRefiningJob(ctx, generated.UpsertRefiningJobParams{
		JobID:          job.ID,
		OwnerID:        job.OwnerID,
		MaterialType:   string(job.MaterialType),
		Tier:           int16(job.Tier),
		InputQuantity:  int32(job.InputQuantity),
		InputPurity:    job.InputPurity.Raw(),
		CyclesApplied:  int32(job.CyclesApplied),
		OutputQuantity: int32(job.OutputQuantity),
		OutputPurity:   job.OutputPurity.Raw(),
		Waste:          int32(job.Waste),
		Status:         string(job.Status),
		FailureReason:  job.FailureReason,
		OutputStackID:  job.OutputStackID,
		QueuedAt:       timestamptz(job.QueuedAt),
		CompletesAt:    timestamptz(job.CompletesAt),
		CollectedAt:    nullableTimestamptz(job.CollectedAt),
	})
	if err != nil {
		return wrapErr(ErrMsgFailedToSaveJob, err)
	}
	return nil
}

func manufacturingJobFromRow(row generated.ManufacturingJob) (*domain.ManufacturingJob, error) {
	job := &domain.ManufacturingJob{
		ID:            row.JobID,
		OwnerID:       row.OwnerID,
		BlueprintID:   row.BlueprintID,
		BatchSize:     int(row.BatchSize),
		Status:        domain.JobStatus(row.Status),
		FailureReason: row.FailureReason,
		QueuedAt:      row.QueuedAt.Time,
		StartsAt:      row.StartsAt.Time,
		CompletesAt:   row.CompletesAt.Time,
		CollectedAt:   timePtr(row.CollectedAt),
	}
	if err := json.Unmarshal(row.Stats, &job.Stats); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeStats, err)
	}
	if err := json.Unmarshal(row.Consumed, &job.Consumed); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeStats, err)
	}
	return job, nil
}

func manufacturingJobsFromRows(rows []generated.ManufacturingJob) ([]domain.ManufacturingJob, error) {
	jobs := make([]domain.ManufacturingJob, 0, len(rows))
	for _, row := range rows {
		job, err := manufacturingJobFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanJob, err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func getManufacturingJob(ctx context.Context, q *generated.Queries, jobID string, forUpdate bool) (*domain.ManufacturingJob, error) {
	var (
		row generated.ManufacturingJob
		err error
	)
	if forUpdate {
		row, err = q.GetManufacturingJobForUpdate(ctx, jobID)
	} else {
		row, err = q.GetManufacturingJob(ctx, jobID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
		}
		return nil, wrapErr(ErrMsgFailedToGetJob, err)
	}
	return manufacturingJobFromRow(row)
}

func saveManufacturingJob(ctx context.Context, q *generated.Queries, job *domain.ManufacturingJob) error {
	stats, err := json.Marshal(job.Stats)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalStats, err)
	}
	consumed := job.Consumed
	if consumed == nil {
		consumed = []domain.ConsumedMaterial{}
	}
	consumedJSON, err := json.Marshal(consumed)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalStats, err)
	}

	err = q.UpsertManufacturingJob(ctx, generated.UpsertManufacturingJobParams{
		JobID:         job.ID,
		OwnerID:       job.OwnerID,
		BlueprintID:   job.BlueprintID,
		BatchSize:     int32(job.BatchSize),
		Stats:         stats,
		Consumed:      consumedJSON,
		Status:        string(job.Status),
		FailureReason: job.FailureReason,
		QueuedAt:      timestamptz(job.QueuedAt),
		StartsAt:      timestamptz(job.StartsAt),
		CompletesAt:   timestamptz(job.CompletesAt),
		CollectedAt:   nullableTimestamptz(job.CollectedAt),
	})
	if err != nil {
		return wrapErr(ErrMsgFailedToSaveJob, err)
	}
	return nil
}

// latestManufacturingCompletion returns the zero time when the owner has no unfinished job
func latestManufacturingCompletion(ctx context.Context, q *generated.Queries, ownerID string) (time.Time, error) {
	latest, err := q.LatestManufacturingCompletion(ctx, ownerID)
	if err != nil {
		return time.Time{}, wrapErr(ErrMsgFailedToQueryLatest, err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time, nil
}

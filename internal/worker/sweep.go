package worker

import (
	"context"

	"github.com/osse101/Crucible_Go/internal/logger"
	"github.com/osse101/Crucible_Go/internal/metrics"
)

// Completer marks due jobs completed and reports how many it flipped
type Completer interface {
	CompleteDue(ctx context.Context, limit int) (int, error)
}

// SweepJob completes manufacturing jobs whose ETA has passed. It keeps
// sweeping while full batches come back so a backlog drains in one run.
type SweepJob struct {
	completer Completer
	batchSize int
}

// NewSweepJob creates a sweep job flipping up to batchSize jobs per round
func NewSweepJob(completer Completer, batchSize int) *SweepJob {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &SweepJob{completer: completer, batchSize: batchSize}
}

// Process runs one sweep
func (j *SweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	total := 0
	for round := 0; round < MaxSweepRounds; round++ {
		n, err := j.completer.CompleteDue(ctx, j.batchSize)
		total += n
		if err != nil {
			log.Error(LogMsgSweepFailed, "error", err, "completed", total)
			metrics.JobSweepCompleted.Add(float64(total))
			return err
		}
		if n < j.batchSize || ctx.Err() != nil {
			break
		}
	}

	metrics.JobSweepCompleted.Add(float64(total))
	if total > 0 {
		log.Info(LogMsgSweepCompleted, "completed", total)
	}
	return nil
}

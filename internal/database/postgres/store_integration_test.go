package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/domain"
)

func seedStack(t *testing.T, s *Store, id string, qty int, purity float64) {
	t.Helper()
	require.NoError(t, s.CreateStack(context.Background(), &domain.MaterialStack{
		ID:           id,
		OwnerID:      "owner-1",
		MaterialType: "ferrite",
		Tier:         2,
		Purity:       domain.NewPurity(purity),
		Quantity:     qty,
	}))
}

func TestStore_ConsumeRejectsInFull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStack(t, s, "s1", 30, 0.5)

	err := s.Consume(ctx, "s1", 31)
	require.ErrorIs(t, err, domain.ErrInsufficientMaterial)

	st, err := s.GetStack(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 30, st.Quantity, "no partial consumption")

	require.NoError(t, s.Consume(ctx, "s1", 30))
	assert.ErrorIs(t, s.Consume(ctx, "s1", 1), domain.ErrInsufficientMaterial)
	assert.ErrorIs(t, s.Consume(ctx, "s1", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, s.Consume(ctx, "missing", 1), domain.ErrStackNotFound)
}

func TestStore_ConcurrentConsumeNeverOverdraws(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStack(t, s, "s1", 100, 0.5)

	var ok int32
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Consume(ctx, "s1", 7); err == nil {
				atomic.AddInt32(&ok, 1)
			} else {
				assert.True(t, errors.Is(err, domain.ErrInsufficientMaterial), "unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	st, err := s.GetStack(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int32(14), ok)
	assert.Equal(t, 2, st.Quantity)
}

func TestStore_ProduceOrMerge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prod := domain.StackProduction{
		OwnerID:      "owner-1",
		MaterialType: "ferrite",
		Tier:         3,
		Purity:       domain.NewPurity(0.4),
		Quantity:     600,
		IsRefined:    true,
	}
	id1, err := s.ProduceOrMerge(ctx, prod)
	require.NoError(t, err)

	prod.Purity = domain.NewPurity(0.9)
	prod.Quantity = 400
	id2, err := s.ProduceOrMerge(ctx, prod)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "fungible production merges")

	st, err := s.GetStack(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, 1000, st.Quantity)
	assert.InDelta(t, 0.6, st.Purity.Raw(), 1e-9)

	prod.IsRefined = false
	id3, err := s.ProduceOrMerge(ctx, prod)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3, "ore and mineral never merge")

	_, err = s.ProduceOrMerge(ctx, domain.StackProduction{OwnerID: "o", MaterialType: "x", Tier: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestStore_RefinementLevelRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.ProduceOrMerge(ctx, domain.StackProduction{
		OwnerID:      "owner-1",
		MaterialType: "cuprite",
		Tier:         4,
		Purity:       domain.PurityFromRaw(1.25),
		Quantity:     10,
		IsRefined:    true,
	})
	require.NoError(t, err)

	st, err := s.GetStack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1.0, st.Purity.Value)
	assert.Equal(t, 2, st.Purity.RefinementLevel)
	assert.InDelta(t, 1.25, st.Purity.Raw(), 1e-9)
}

func TestStore_TxRollbackDiscardsChanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStack(t, s, "s1", 20, 0.5)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Consume(ctx, "s1", 5))
	require.NoError(t, tx.UpdatePurity(ctx, "s1", domain.NewPurity(0.9)))

	staged, err := tx.GetStackForUpdate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 15, staged.Quantity)

	require.NoError(t, tx.Rollback(ctx))
	assert.ErrorIs(t, tx.Rollback(ctx), domain.ErrTxClosed)

	st, err := s.GetStack(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 20, st.Quantity)
	assert.Equal(t, 0.5, st.Purity.Value)
}

func TestStore_TxCommitPublishesChanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStack(t, s, "s1", 20, 0.5)
	now := time.Now().UTC().Truncate(time.Microsecond)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Consume(ctx, "s1", 5))
	require.NoError(t, tx.SaveRefiningJob(ctx, &domain.RefiningJob{
		ID:             "r1",
		OwnerID:        "owner-1",
		MaterialType:   "ferrite",
		Tier:           2,
		InputQuantity:  5,
		InputPurity:    domain.NewPurity(0.5),
		CyclesApplied:  1,
		OutputQuantity: 4,
		OutputPurity:   domain.NewPurity(0.55),
		Waste:          1,
		Status:         domain.JobInProgress,
		QueuedAt:       now,
		CompletesAt:    now.Add(time.Minute),
	}))
	require.NoError(t, tx.Commit(ctx))

	st, err := s.GetStack(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 15, st.Quantity)

	job, err := s.GetRefiningJob(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobInProgress, job.Status)
	assert.InDelta(t, 0.55, job.OutputPurity.Raw(), 1e-9)
	assert.Nil(t, job.CollectedAt)

	jobs, err := s.ListRefiningJobs(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	_, err = s.GetRefiningJob(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestStore_ManufacturingQueueHelpers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	latest, err := tx.LatestManufacturingCompletion(ctx, "owner-1")
	require.NoError(t, err)
	assert.True(t, latest.IsZero())

	for _, job := range []*domain.ManufacturingJob{
		{ID: "m1", OwnerID: "owner-1", BlueprintID: "iron_blade", BatchSize: 1, Status: domain.JobQueued,
			Stats: map[domain.StatName]float64{domain.StatDamage: 48}, QueuedAt: now, StartsAt: now, CompletesAt: now.Add(-time.Second)},
		{ID: "m2", OwnerID: "owner-1", BlueprintID: "iron_blade", BatchSize: 1, Status: domain.JobQueued,
			QueuedAt: now.Add(time.Millisecond), StartsAt: now, CompletesAt: now.Add(time.Hour)},
	} {
		require.NoError(t, tx.SaveManufacturingJob(ctx, job))
	}
	latest, err = tx.LatestManufacturingCompletion(ctx, "owner-1")
	require.NoError(t, err)
	assert.True(t, now.Add(time.Hour).Equal(latest))
	require.NoError(t, tx.Commit(ctx))

	due, err := s.ListDueManufacturingJobs(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "m1", due[0].ID)
	assert.Equal(t, 48.0, due[0].Stats[domain.StatDamage])

	flipped, err := s.MarkManufacturingCompleted(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = s.MarkManufacturingCompleted(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, flipped, "second mark is a no-op")

	_, err = s.MarkManufacturingCompleted(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	jobs, err := s.ListManufacturingJobs(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "m1", jobs[0].ID)
	assert.Equal(t, domain.JobCompleted, jobs[0].Status)
}

func TestStore_ListStacksSkipsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStack(t, s, "a", 10, 0.5)
	seedStack(t, s, "b", 10, 0.5)
	require.NoError(t, s.Consume(ctx, "b", 10))

	stacks, err := s.ListStacksByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, stacks, 1)
	assert.Equal(t, "a", stacks[0].ID)
}

func TestStore_ListDueWithoutLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	for _, id := range []string{"d1", "d2", "d3"} {
		require.NoError(t, tx.SaveManufacturingJob(ctx, &domain.ManufacturingJob{
			ID: id, OwnerID: "owner-1", BlueprintID: "iron_blade", BatchSize: 1, Status: domain.JobQueued,
			QueuedAt: now, StartsAt: now, CompletesAt: now.Add(-time.Minute),
		}))
	}
	require.NoError(t, tx.Commit(ctx))

	due, err := s.ListDueManufacturingJobs(ctx, now, 0)
	require.NoError(t, err)
	assert.Len(t, due, 3)

	due, err = s.ListDueManufacturingJobs(ctx, now, 2)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestStore_TxRefusesSecondOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedStack(t, s, "mine", 10, 0.5)
	require.NoError(t, s.CreateStack(ctx, &domain.MaterialStack{
		ID: "theirs", OwnerID: "owner-2", MaterialType: "ferrite", Tier: 2,
		Purity: domain.NewPurity(0.5), Quantity: 10,
	}))

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Consume(ctx, "mine", 1))

	err = tx.Consume(ctx, "theirs", 1)
	require.ErrorIs(t, err, domain.ErrNotOwner)
	require.NoError(t, tx.Rollback(ctx))

	// owner-2 was never locked, so a fresh tx gets through at once
	done := make(chan error, 1)
	go func() { done <- s.Consume(ctx, "theirs", 1) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("owner-2 stayed locked")
	}

	st, err := s.GetStack(ctx, "mine")
	require.NoError(t, err)
	assert.Equal(t, 10, st.Quantity, "rolled back")
}

func TestStore_CollectedAtRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	collected := now.Add(time.Minute)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveManufacturingJob(ctx, &domain.ManufacturingJob{
		ID: "c1", OwnerID: "owner-1", BlueprintID: "iron_blade", BatchSize: 2, Status: domain.JobCompleted,
		Consumed:    []domain.ConsumedMaterial{{StackID: "s1", MaterialType: "ferrite", Tier: 2, Quantity: 4}},
		QueuedAt:    now,
		StartsAt:    now,
		CompletesAt: now,
		CollectedAt: &collected,
	}))
	require.NoError(t, tx.Commit(ctx))

	job, err := s.GetManufacturingJob(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, job.CollectedAt)
	assert.True(t, collected.Equal(*job.CollectedAt))
	require.Len(t, job.Consumed, 1)
	assert.Equal(t, 4, job.Consumed[0].Quantity)
}

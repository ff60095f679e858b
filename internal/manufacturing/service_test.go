package manufacturing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/database/memory"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/event"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(ctx context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) count(typ event.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func setupService(t *testing.T, bonuses BonusProvider) (*service, *memory.Store, *testClock, *recorder) {
	t.Helper()
	store := memory.NewStore()
	bus := event.NewMemoryBus()
	rec := &recorder{}
	for _, typ := range []event.Type{event.ManufacturingQueued, event.ManufacturingCompleted, event.ManufacturingCancelled} {
		bus.Subscribe(typ, rec.handle)
	}

	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(store, newFakeCatalog(), bonuses, bus).(*service)
	svc.now = clock.Now
	return svc, store, clock, rec
}

func seed(t *testing.T, store *memory.Store, st domain.MaterialStack) {
	t.Helper()
	require.NoError(t, store.CreateStack(context.Background(), &st))
}

func bladeRequest(batch int) QueueRequest {
	return QueueRequest{
		OwnerID:     "owner-1",
		BlueprintID: "blade",
		BatchSize:   batch,
		Selections:  map[domain.MaterialType]string{"ferrite": "f1"},
	}
}

func TestQueue_InsufficientMaterialConsumesNothing(t *testing.T) {
	ctx := context.Background()
	svc, store, _, rec := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 3, 3, 0.60))

	_, err := svc.Queue(ctx, bladeRequest(5))
	require.ErrorIs(t, err, domain.ErrInsufficientMaterial)

	st, err := store.GetStack(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Quantity)

	jobs, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, 0, rec.count(event.ManufacturingQueued))
}

func TestQueue_ConsumesAndFixesStats(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, rec := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 3, 10, 0.60))

	job, err := svc.Queue(ctx, bladeRequest(4))
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 48.0, job.Stats[domain.StatDamage])
	assert.Equal(t, domain.JobInProgress, job.Status)
	assert.Equal(t, clock.Now(), job.StartsAt)
	assert.Equal(t, clock.Now().Add(2*time.Minute), job.CompletesAt)

	st, _ := store.GetStack(ctx, "f1")
	assert.Equal(t, 6, st.Quantity)
	assert.Equal(t, 1, rec.count(event.ManufacturingQueued))
}

func TestQueue_OwnerJobsRunSequentially(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, _ := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 1, 10, 0.50))

	first, err := svc.Queue(ctx, bladeRequest(1))
	require.NoError(t, err)
	second, err := svc.Queue(ctx, bladeRequest(1))
	require.NoError(t, err)

	assert.Equal(t, first.CompletesAt, second.StartsAt)
	assert.Equal(t, domain.JobQueued, second.Status)

	clock.Advance(2*time.Minute + time.Second)
	got, err := svc.Get(ctx, "owner-1", second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobInProgress, got.Status)

	clock.Advance(2 * time.Minute)
	got, err = svc.Get(ctx, "owner-1", second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
}

func TestQueue_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 1, 10, 0.50))
	foreign := stack("f2", "ferrite", 1, 10, 0.50)
	foreign.OwnerID = "owner-2"
	seed(t, store, foreign)

	tests := []struct {
		name string
		req  QueueRequest
		want error
	}{
		{"no owner", QueueRequest{BlueprintID: "blade", BatchSize: 1}, domain.ErrInvalidInput},
		{"no blueprint", QueueRequest{OwnerID: "owner-1", BatchSize: 1}, domain.ErrInvalidInput},
		{"zero batch", QueueRequest{OwnerID: "owner-1", BlueprintID: "blade"}, domain.ErrInvalidQuantity},
		{"unknown blueprint", QueueRequest{OwnerID: "owner-1", BlueprintID: "hammer", BatchSize: 1}, domain.ErrBlueprintNotFound},
		{"no selection", QueueRequest{OwnerID: "owner-1", BlueprintID: "blade", BatchSize: 1}, domain.ErrInsufficientMaterial},
		{"missing stack", QueueRequest{OwnerID: "owner-1", BlueprintID: "blade", BatchSize: 1,
			Selections: map[domain.MaterialType]string{"ferrite": "nope"}}, domain.ErrStackNotFound},
		{"foreign stack", QueueRequest{OwnerID: "owner-1", BlueprintID: "blade", BatchSize: 1,
			Selections: map[domain.MaterialType]string{"ferrite": "f2"}}, domain.ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Queue(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	st, _ := store.GetStack(ctx, "f1")
	assert.Equal(t, 10, st.Quantity)
}

func TestQueue_ConcurrentRequestsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 1, 10, 0.50))

	var ok, short int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Queue(ctx, bladeRequest(4))
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case assert.ErrorIs(t, err, domain.ErrInsufficientMaterial):
				atomic.AddInt32(&short, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), ok)
	assert.Equal(t, int32(6), short)
	st, _ := store.GetStack(ctx, "f1")
	assert.Equal(t, 2, st.Quantity)
}

func TestPlan_DoesNotConsume(t *testing.T) {
	ctx := context.Background()
	svc, store, _, rec := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 3, 10, 0.60))

	plan, err := svc.Plan(ctx, bladeRequest(2))
	require.NoError(t, err)

	assert.Equal(t, domain.JobPlanning, plan.Status)
	assert.Empty(t, plan.ID)
	assert.Equal(t, 48.0, plan.Stats[domain.StatDamage])
	require.Len(t, plan.Consumed, 1)
	assert.Equal(t, 2, plan.Consumed[0].Quantity)

	st, _ := store.GetStack(ctx, "f1")
	assert.Equal(t, 10, st.Quantity)
	assert.Equal(t, 0, rec.count(event.ManufacturingQueued))
}

func TestQueue_AppliesBonuses(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, _ := setupService(t, StaticBonuses{"owner-1": {Stat: 0.25, Speed: 0.5}})
	seed(t, store, stack("f1", "ferrite", 3, 10, 0.60))

	job, err := svc.Queue(ctx, bladeRequest(1))
	require.NoError(t, err)

	assert.Equal(t, 60.0, job.Stats[domain.StatDamage])
	assert.Equal(t, clock.Now().Add(time.Minute), job.CompletesAt)
}

func TestCompleteDue_AnnouncesOnce(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, rec := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 1, 10, 0.50))

	_, err := svc.Queue(ctx, bladeRequest(1))
	require.NoError(t, err)

	n, err := svc.CompleteDue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	clock.Advance(time.Hour)
	n, err = svc.CompleteDue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.CompleteDue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, rec.count(event.ManufacturingCompleted))
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, rec := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 1, 10, 0.50))

	job, err := svc.Queue(ctx, bladeRequest(1))
	require.NoError(t, err)

	_, err = svc.Collect(ctx, "owner-1", job.ID)
	require.ErrorIs(t, err, domain.ErrJobNotComplete)

	clock.Advance(time.Hour)
	_, err = svc.Collect(ctx, "owner-2", job.ID)
	require.ErrorIs(t, err, domain.ErrJobNotFound)

	got, err := svc.Collect(ctx, "owner-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	require.NotNil(t, got.CollectedAt)

	_, err = svc.Collect(ctx, "owner-1", job.ID)
	assert.ErrorIs(t, err, domain.ErrJobAlreadyClaimed)

	n, err := svc.CompleteDue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, rec.count(event.ManufacturingCompleted))
}

func TestCancel_NoRefund(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, rec := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 1, 10, 0.50))

	job, err := svc.Queue(ctx, bladeRequest(4))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, "owner-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, cancelled.Status)
	assert.Equal(t, domain.JobFailureCancelled, cancelled.FailureReason)

	st, _ := store.GetStack(ctx, "f1")
	assert.Equal(t, 6, st.Quantity, "materials stay consumed")
	assert.Equal(t, 1, rec.count(event.ManufacturingCancelled))

	_, err = svc.Cancel(ctx, "owner-1", job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotCancellable)

	clock.Advance(time.Hour)
	_, err = svc.Collect(ctx, "owner-1", job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotComplete)

	n, err := svc.CompleteDue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCancel_CompletedJobRejected(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, _ := setupService(t, nil)
	seed(t, store, stack("f1", "ferrite", 1, 10, 0.50))

	job, err := svc.Queue(ctx, bladeRequest(1))
	require.NoError(t, err)
	clock.Advance(time.Hour)

	_, err = svc.Cancel(ctx, "owner-1", job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotCancellable)
}

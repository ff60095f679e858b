package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Crucible_Go/internal/domain"
)

// tx stages copies of everything it touches and publishes them on Commit.
// A tx is bound to the first owner it touches and holds that owner's lock
// until it ends. Touching a second owner fails with ErrNotOwner.
type tx struct {
	s      *Store
	owner  string
	unlock func()

	stacks   map[string]*domain.MaterialStack
	refining map[string]*domain.RefiningJob
	mfg      map[string]*domain.ManufacturingJob
	closed   bool
}

func newTx(s *Store) *tx {
	return &tx{
		s:        s,
		stacks:   make(map[string]*domain.MaterialStack),
		refining: make(map[string]*domain.RefiningJob),
		mfg:      make(map[string]*domain.ManufacturingJob),
	}
}

func (t *tx) lockOwner(ownerID string) error {
	if t.unlock != nil {
		if t.owner == ownerID {
			return nil
		}
		return fmt.Errorf("%w: tx holds %s, refused %s", domain.ErrNotOwner, t.owner, ownerID)
	}
	t.unlock = t.s.owners.LockAll(ownerID)
	t.owner = ownerID
	return nil
}

func (t *tx) release() {
	if t.unlock != nil {
		t.unlock()
		t.unlock = nil
	}
	t.closed = true
}

// stage returns the tx-local copy of a stack, locking its owner on first touch
func (t *tx) stage(stackID string) (*domain.MaterialStack, error) {
	if t.closed {
		return nil, domain.ErrTxClosed
	}
	if st, ok := t.stacks[stackID]; ok {
		return st, nil
	}

	t.s.mu.RLock()
	st, ok := t.s.stacks[stackID]
	var owner string
	if ok {
		owner = st.OwnerID
	}
	t.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStackNotFound, stackID)
	}

	if err := t.lockOwner(owner); err != nil {
		return nil, err
	}

	// re-read under the owner lock
	t.s.mu.RLock()
	cp := *t.s.stacks[stackID]
	t.s.mu.RUnlock()

	t.stacks[stackID] = &cp
	return &cp, nil
}

func (t *tx) GetStackForUpdate(ctx context.Context, stackID string) (*domain.MaterialStack, error) {
	st, err := t.stage(stackID)
	if err != nil {
		return nil, err
	}
	out := *st
	return &out, nil
}

func (t *tx) Consume(ctx context.Context, stackID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: consume %d", domain.ErrInvalidQuantity, quantity)
	}
	st, err := t.stage(stackID)
	if err != nil {
		return err
	}
	if st.Quantity < quantity {
		return fmt.Errorf("%w: stack %s has %d, need %d", domain.ErrInsufficientMaterial, stackID, st.Quantity, quantity)
	}
	st.Quantity -= quantity
	st.UpdatedAt = t.s.now()
	return nil
}

func (t *tx) ProduceOrMerge(ctx context.Context, p domain.StackProduction) (string, error) {
	if t.closed {
		return "", domain.ErrTxClosed
	}
	if p.Quantity <= 0 {
		return "", fmt.Errorf("%w: produce %d", domain.ErrInvalidQuantity, p.Quantity)
	}
	if !p.Tier.Valid() || p.OwnerID == "" || p.MaterialType == "" {
		return "", fmt.Errorf("%w: incomplete production", domain.ErrInvalidInput)
	}

	if err := t.lockOwner(p.OwnerID); err != nil {
		return "", err
	}

	target := t.findFungible(p.Key())
	now := t.s.now()
	if target == nil {
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
		t.stacks[st.ID] = st
		return st.ID, nil
	}

	target.Purity = domain.BlendPurity(target.Purity, target.Quantity, p.Purity, p.Quantity)
	target.Quantity += p.Quantity
	target.UpdatedAt = now
	return target.ID, nil
}

// findFungible picks the oldest stack matching key, staged copies first
func (t *tx) findFungible(key domain.StackKey) *domain.MaterialStack {
	var best *domain.MaterialStack
	consider := func(st *domain.MaterialStack) {
		if st.Key() != key {
			return
		}
		if best == nil || st.CreatedAt.Before(best.CreatedAt) ||
			(st.CreatedAt.Equal(best.CreatedAt) && st.ID < best.ID) {
			best = st
		}
	}

	for _, st := range t.stacks {
		consider(st)
	}

	t.s.mu.RLock()
	var ids []string
	for id, st := range t.s.stacks {
		if _, staged := t.stacks[id]; !staged && st.Key() == key {
			ids = append(ids, id)
		}
	}
	t.s.mu.RUnlock()

	for _, id := range ids {
		st, err := t.stage(id)
		if err == nil {
			consider(st)
		}
	}
	return best
}

func (t *tx) UpdatePurity(ctx context.Context, stackID string, purity domain.Purity) error {
	st, err := t.stage(stackID)
	if err != nil {
		return err
	}
	st.Purity = purity
	st.UpdatedAt = t.s.now()
	return nil
}

func (t *tx) SaveRefiningJob(ctx context.Context, job *domain.RefiningJob) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	if err := t.lockOwner(job.OwnerID); err != nil {
		return err
	}
	cp := *job
	t.refining[job.ID] = &cp
	return nil
}

func (t *tx) GetRefiningJobForUpdate(ctx context.Context, jobID string) (*domain.RefiningJob, error) {
	if t.closed {
		return nil, domain.ErrTxClosed
	}
	if job, ok := t.refining[jobID]; ok {
		out := *job
		return &out, nil
	}

	t.s.mu.RLock()
	job, ok := t.s.refining[jobID]
	var owner string
	if ok {
		owner = job.OwnerID
	}
	t.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}

	if err := t.lockOwner(owner); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	out := *t.s.refining[jobID]
	t.s.mu.RUnlock()
	return &out, nil
}

func (t *tx) SaveManufacturingJob(ctx context.Context, job *domain.ManufacturingJob) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	if err := t.lockOwner(job.OwnerID); err != nil {
		return err
	}
	t.mfg[job.ID] = copyManufacturingJob(job)
	return nil
}

func (t *tx) GetManufacturingJobForUpdate(ctx context.Context, jobID string) (*domain.ManufacturingJob, error) {
	if t.closed {
		return nil, domain.ErrTxClosed
	}
	if job, ok := t.mfg[jobID]; ok {
		return copyManufacturingJob(job), nil
	}

	t.s.mu.RLock()
	job, ok := t.s.mfg[jobID]
	var owner string
	if ok {
		owner = job.OwnerID
	}
	t.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}

	if err := t.lockOwner(owner); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	out := copyManufacturingJob(t.s.mfg[jobID])
	t.s.mu.RUnlock()
	return out, nil
}

func (t *tx) LatestManufacturingCompletion(ctx context.Context, ownerID string) (time.Time, error) {
	if t.closed {
		return time.Time{}, domain.ErrTxClosed
	}
	if err := t.lockOwner(ownerID); err != nil {
		return time.Time{}, err
	}

	var latest time.Time
	consider := func(job *domain.ManufacturingJob) {
		if job.OwnerID == ownerID && !job.Status.Terminal() && job.CompletesAt.After(latest) {
			latest = job.CompletesAt
		}
	}

	t.s.mu.RLock()
	for id, job := range t.s.mfg {
		if _, staged := t.mfg[id]; !staged {
			consider(job)
		}
	}
	t.s.mu.RUnlock()
	for _, job := range t.mfg {
		consider(job)
	}
	return latest, nil
}

func (t *tx) Commit(ctx context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}

	t.s.mu.Lock()
	for id, st := range t.stacks {
		t.s.stacks[id] = st
	}
	for id, job := range t.refining {
		t.s.refining[id] = job
	}
	for id, job := range t.mfg {
		t.s.mfg[id] = job
	}
	t.s.mu.Unlock()

	t.release()
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.release()
	return nil
}

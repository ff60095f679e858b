package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	batches []int
	err     error
	calls   int
}

func (f *fakeCompleter) CompleteDue(ctx context.Context, limit int) (int, error) {
	defer func() { f.calls++ }()
	if f.calls < len(f.batches) {
		return f.batches[f.calls], nil
	}
	return 0, f.err
}

func TestSweepJob_DrainsFullBatches(t *testing.T) {
	c := &fakeCompleter{batches: []int{5, 5, 2}}
	job := NewSweepJob(c, 5)

	require.NoError(t, job.Process(context.Background()))
	assert.Equal(t, 3, c.calls, "stops after the first partial batch")
}

func TestSweepJob_StopsOnEmpty(t *testing.T) {
	c := &fakeCompleter{}
	require.NoError(t, NewSweepJob(c, 0).Process(context.Background()))
	assert.Equal(t, 1, c.calls)
}

func TestSweepJob_ReturnsError(t *testing.T) {
	c := &fakeCompleter{batches: []int{3}, err: errors.New("db down")}
	err := NewSweepJob(c, 3).Process(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestSweepJob_CapsRounds(t *testing.T) {
	batches := make([]int, MaxSweepRounds+5)
	for i := range batches {
		batches[i] = 1
	}
	c := &fakeCompleter{batches: batches}

	require.NoError(t, NewSweepJob(c, 1).Process(context.Background()))
	assert.Equal(t, MaxSweepRounds, c.calls)
}

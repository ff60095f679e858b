package leaktest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recorder captures failures instead of failing the enclosing test
type recorder struct {
	testing.TB
	mu     sync.Mutex
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = true
}

func TestRun_JoinedWorkersPass(t *testing.T) {
	rec := &recorder{TB: t}

	Run(rec, 0, func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() { defer wg.Done() }()
		}
		wg.Wait()
	})

	assert.False(t, rec.failed)
}

func TestVerify_ReportsStuckGoroutine(t *testing.T) {
	rec := &recorder{TB: t}
	stuck := make(chan struct{})
	defer close(stuck)

	c := Snapshot(rec).WithTimeout(50 * time.Millisecond)
	go func() { <-stuck }()
	c.Verify(0)

	assert.True(t, rec.failed)
}

func TestVerify_WaitsForSlowExit(t *testing.T) {
	rec := &recorder{TB: t}

	c := Snapshot(rec)
	go func() { time.Sleep(30 * time.Millisecond) }()
	c.Verify(0)

	assert.False(t, rec.failed)
}

func TestVerify_Tolerance(t *testing.T) {
	rec := &recorder{TB: t}
	stuck := make(chan struct{})
	defer close(stuck)

	c := Snapshot(rec).WithTimeout(20 * time.Millisecond)
	go func() { <-stuck }()
	c.Verify(1)

	assert.False(t, rec.failed)
}

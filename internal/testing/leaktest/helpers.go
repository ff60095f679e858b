// Package leaktest checks that concurrent material operations leave no
// goroutines behind once they return.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// DefaultSettleTimeout is how long Verify waits for goroutines to wind down
const DefaultSettleTimeout = time.Second

// Checker remembers the goroutine count at the start of a test section
type Checker struct {
	t        testing.TB
	baseline int
	timeout  time.Duration
}

// Snapshot records the current goroutine count
func Snapshot(t testing.TB) *Checker {
	t.Helper()
	runtime.Gosched()
	return &Checker{t: t, baseline: runtime.NumGoroutine(), timeout: DefaultSettleTimeout}
}

// WithTimeout changes how long Verify polls before reporting a leak
func (c *Checker) WithTimeout(d time.Duration) *Checker {
	c.timeout = d
	return c
}

// Verify polls until the goroutine count is back within tolerance of the
// baseline, failing the test if it never gets there.
func (c *Checker) Verify(tolerance int) {
	c.t.Helper()

	deadline := time.Now().Add(c.timeout)
	current := runtime.NumGoroutine()
	for current-c.baseline > tolerance {
		if time.Now().After(deadline) {
			c.t.Errorf("goroutine leak: baseline=%d current=%d tolerance=%d", c.baseline, current, tolerance)
			return
		}
		time.Sleep(10 * time.Millisecond)
		current = runtime.NumGoroutine()
	}
}

// Run executes fn and verifies it left at most tolerance goroutines running
func Run(t testing.TB, tolerance int, fn func()) {
	t.Helper()
	c := Snapshot(t)
	fn()
	c.Verify(tolerance)
}

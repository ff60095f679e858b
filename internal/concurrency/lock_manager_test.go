package concurrency

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockManager_SameKeySameMutex(t *testing.T) {
	lm := NewLockManager()
	assert.Same(t, lm.GetLock("a"), lm.GetLock("a"))
	assert.NotSame(t, lm.GetLock("a"), lm.GetLock("b"))
}

func TestLockManager_LockAllSerializes(t *testing.T) {
	lm := NewLockManager()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		keys := []string{"b", "a"}
		if i%2 == 0 {
			keys = []string{"a", "b", "a"}
		}
		go func(keys []string) {
			defer wg.Done()
			unlock := lm.LockAll(keys...)
			defer unlock()
			counter++
		}(keys)
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

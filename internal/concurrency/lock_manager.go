package concurrency

import (
	"sort"
	"sync"
)

// LockManager handles named locks
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// LockAll acquires the locks for every key in sorted order and returns a
// function that releases them. Duplicate keys are locked once.
func (lm *LockManager) LockAll(keys ...string) (unlock func()) {
	uniq := make(map[string]struct{}, len(keys))
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, k := range sorted {
		m := lm.GetLock(k)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

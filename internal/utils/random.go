package utils

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource yields uniform floats in [0,1).
// Engines take one so that probabilistic outcomes are reproducible under test.
type RandomSource interface {
	Next() float64
}

// SeededSource is a goroutine-safe RandomSource backed by math/rand
type SeededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededSource returns a source with a fixed seed. A zero seed uses the current time.
func NewSeededSource(seed int64) *SeededSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SeededSource{rnd: rand.New(rand.NewSource(seed))} //nolint:gosec // Game logic randomness, not security critical
}

// Next returns the next float in [0,1)
func (s *SeededSource) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// FixedSource replays a sequence of values, repeating the last one when exhausted
type FixedSource struct {
	mu     sync.Mutex
	values []float64
	idx    int
}

// NewFixedSource returns a source that yields the given values in order
func NewFixedSource(values ...float64) *FixedSource {
	return &FixedSource{values: values}
}

// Next returns the next scripted value
func (s *FixedSource) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.idx]
	if s.idx < len(s.values)-1 {
		s.idx++
	}
	return v
}

// SourceFunc adapts a plain function to RandomSource
type SourceFunc func() float64

// Next calls f
func (f SourceFunc) Next() float64 { return f() }

// UniformBetween draws a uniform value in [min, max) from src
func UniformBetween(src RandomSource, min, max float64) float64 {
	return min + src.Next()*(max-min)
}

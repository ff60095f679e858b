package utils

import "math"

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// GeometricDecay returns factor^steps, used for per-level diminishing multipliers
func GeometricDecay(factor float64, steps int) float64 {
	if steps <= 0 {
		return 1
	}
	return math.Pow(factor, float64(steps))
}

package utils

// WeightedAverage returns Σ(value×weight)/Σweight.
// When the total weight is zero the fallback is returned.
//
// Example:
//   - 600 units at 0.40 + 400 units at 0.90 = (240 + 360) / 1000 = 0.60
func WeightedAverage(values []float64, weights []int, fallback float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return fallback
	}

	total := 0.0
	totalWeight := 0
	for i, v := range values {
		total += v * float64(weights[i])
		totalWeight += weights[i]
	}

	if totalWeight == 0 {
		return fallback
	}
	return total / float64(totalWeight)
}

package analysis

import (
	"math"
	"sort"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle value (average of the two middles for even
// counts). The second return is false for an empty input.
func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

// coefficientOfVariation is the population standard deviation divided
// by the mean. Returns 0 when the mean is zero or the input is empty.
func coefficientOfVariation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	if m == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / m
}

package stats

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
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

// Median finds the median value in a slice of floats.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// Percentile returns the p-th percentile (0 <= p <= 1) of values using
// rank index int(n*p) over a sorted copy.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	idx := int(float64(len(temp)) * p)
	if idx >= len(temp) {
		idx = len(temp) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return temp[idx]
}

// ZScore returns the two-sided normal quantile for the given confidence
// level, e.g. 0.95 -> 1.96. Out-of-range levels fall back to 95%.
func ZScore(confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}
	return math.Sqrt2 * math.Erfinv(confidence)
}

// Round1 rounds to one decimal place for display payloads.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

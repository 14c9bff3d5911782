// Package analysis implements the statistical and ranking engines behind
// query answers: anomaly detection over daily counts, temporal ranking,
// entity comparison and identifier reports.
package analysis

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean of xs, 0 for an empty slice.
func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// sampleStd returns the sample standard deviation (n-1 denominator).
func sampleStd(xs []int, mu float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := float64(x) - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// quantile computes the q-th quantile with linear interpolation between
// the two nearest order statistics.
func quantile(xs []int, q float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	for i, x := range xs {
		sorted[i] = float64(x)
	}
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

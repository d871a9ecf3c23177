// Package stats provides the statistical primitives behind the ORbit
// scoring pillars: descriptive statistics over peer populations plus the
// percentile-to-score and graduated-decay mappings.
package stats

import (
	"math"
	"sort"
)

// Score clamp band: percentiles at or below the floor map to 0, at or
// above the ceiling to 100, linear in between. Compressing the extremes
// keeps "slightly below average" from collapsing to zero while reserving
// 100 for genuinely exceptional performance.
const (
	clampFloor   = 20.0
	clampCeiling = 95.0
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation (n−1 denominator).
// Returns 0 for fewer than 2 values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// CoefficientOfVariation returns StdDev/Mean. Returns 0 for fewer than 2
// values or a zero mean.
func CoefficientOfVariation(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	if m == 0 {
		return 0
	}
	return StdDev(xs) / m
}

// Median returns the textbook median: the middle element for odd lengths,
// the average of the two middle elements for even lengths, 0 for empty
// input. The input slice is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// PercentileRank returns the percentile (0–100) of v within population:
// the share of population values that v is at least as good as. The
// comparison is inclusive, so a value tied with the entire population
// ranks at the 100th percentile — an intentional tie-break that rewards
// matching the field rather than penalizing it. A population of one or
// fewer values carries no comparative signal and ranks neutral (50).
func PercentileRank(v float64, population []float64, lowerIsBetter bool) float64 {
	if len(population) <= 1 {
		return 50
	}
	noBetter := 0
	for _, p := range population {
		if lowerIsBetter {
			if v <= p {
				noBetter++
			}
		} else {
			if v >= p {
				noBetter++
			}
		}
	}
	return float64(noBetter) / float64(len(population)) * 100
}

// ClampScore maps a percentile onto the 0–100 score scale through the
// [clampFloor, clampCeiling] band, rounding to the nearest integer value.
func ClampScore(percentile float64) float64 {
	if percentile <= clampFloor {
		return 0
	}
	if percentile >= clampCeiling {
		return 100
	}
	return math.Round((percentile - clampFloor) / (clampCeiling - clampFloor) * 100)
}

// GraduatedScore returns a per-case timeliness score in [0, 1]:
// 1.0 when minutesOver is zero or negative, decaying linearly to 0.0 at
// floorMinutes and beyond.
func GraduatedScore(minutesOver, floorMinutes float64) float64 {
	if minutesOver <= 0 {
		return 1
	}
	if minutesOver >= floorMinutes {
		return 0
	}
	return 1 - minutesOver/floorMinutes
}

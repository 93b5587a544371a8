// Package statistics reduces Monte Carlo runs to robust yearly summaries.
package statistics

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile of sorted values, interpolating linearly
// between order statistics at position (n-1)*q. Empty input yields NaN.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * q
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Quantiles sorts a copy of values and returns one quantile per q.
func Quantiles(values []float64, qs ...float64) []float64 {
	sorted := sortedCopy(values)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = Quantile(sorted, q)
	}
	return out
}

// TrimToPercentiles keeps the values within the [low, high] quantile band,
// bounds included, in ascending order. The band is computed over the finite
// values only; NaN and infinite values are always kept so they reach the
// statistics.
func TrimToPercentiles(values []float64, low, high float64) []float64 {
	sorted := sortedCopy(values)
	if len(sorted) == 0 {
		return sorted
	}
	lo, hi := band(sorted, low, high)
	out := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		if inBand(v, lo, hi) {
			out = append(out, v)
		}
	}
	return out
}

// band returns the [low, high] quantiles of the finite values of sorted.
func band(sorted []float64, low, high float64) (float64, float64) {
	finite := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	return Quantile(finite, low), Quantile(finite, high)
}

func inBand(v, lo, hi float64) bool {
	return !isFinite(v) || (v >= lo && v <= hi)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Mean returns the arithmetic mean, or 0 for no values.
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

// StdDev returns the sample standard deviation, or 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// CVaR returns the mean of the values at or below v. A NaN threshold
// yields NaN.
func CVaR(values []float64, v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	var tail []float64
	for _, x := range values {
		if x <= v {
			tail = append(tail, x)
		}
	}
	return Mean(tail)
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

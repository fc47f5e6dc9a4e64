package pipeline

import (
	"math"

	"github.com/theirongolddev/adsim/internal/model"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
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

// StdDev returns the sample standard deviation (n-1 denominator).
// Fewer than two samples yield 0.
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

// ROASValues extracts the rounded ROAS of each record.
func ROASValues(records []model.ProjectionRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.ROAS
	}
	return out
}

// MarginValues extracts the rounded margin of each record.
func MarginValues(records []model.ProjectionRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Margin
	}
	return out
}

// Package stats implements the descriptive and inferential statistics behind
// the ESM performance comparison engine: sample summaries with 95% confidence
// intervals, Welch's unequal-variance t-test and Cohen's d effect sizes.
//
// The p-value and confidence-interval critical values are deliberate
// approximations (see WelchTTest and Describe). Recorded reports were produced
// with these exact formulas, so they must not be silently upgraded to exact
// Student's-t computations.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData signals that a sample is empty and carries no
// statistical information at all.
var ErrInsufficientData = errors.New("insufficient data")

// Summary holds the descriptive statistics of one metric sample. It is
// computed fresh per sample and never mutated afterwards.
type Summary struct {
	N       int
	Mean    float64
	Std     float64
	Min     float64
	Max     float64
	CILower float64
	CIUpper float64
}

// Describe reduces a sample to its Summary. An empty sample returns
// ErrInsufficientData. A single observation cannot support a variance
// estimate, so it yields Std = 0 and a zero-width confidence interval; this is
// a deliberate degenerate case, not an error.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrInsufficientData
	}

	n := len(values)
	mean := stat.Mean(values, nil)
	lo, hi := minMax(values)

	if n < 2 {
		return Summary{
			N:       n,
			Mean:    mean,
			Min:     lo,
			Max:     hi,
			CILower: mean,
			CIUpper: mean,
		}, nil
	}

	// Unbiased sample variance, Σ(x−mean)²/(n−1).
	std := math.Sqrt(stat.Variance(values, nil))

	// Fixed two-regime approximation of the t critical value: the normal
	// quantile for n > 30, a flat 2.0 below that. Not a full lookup table.
	tValue := 2.0
	if n > 30 {
		tValue = 1.96
	}
	margin := tValue * std / math.Sqrt(float64(n))

	return Summary{
		N:       n,
		Mean:    mean,
		Std:     std,
		Min:     lo,
		Max:     hi,
		CILower: mean - margin,
		CIUpper: mean + margin,
	}, nil
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

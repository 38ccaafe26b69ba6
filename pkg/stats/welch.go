package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TTestResult is the outcome of a Welch's t-test between two independent
// samples.
type TTestResult struct {
	// T is the Welch t-statistic, signed as mean(sample1) − mean(sample2).
	T float64
	// P is the two-sided p-value, approximated through the standard normal
	// CDF of |T|. The approximation is accurate for large degrees of freedom
	// and conservative-but-imprecise for small samples; callers must not
	// assume exact Student's-t behavior.
	P float64
	// DF is the Welch–Satterthwaite degrees of freedom, or 1 when its
	// denominator degenerates to zero.
	DF float64
}

// WelchTTest runs Welch's unequal-variance t-test on two independent samples
// of possibly different size. Degenerate inputs never fail: if either sample
// has fewer than two observations, or both samples are constant with equal
// means (zero standard error), the result is (t=0, p=1), meaning "no evidence
// against the null".
func WelchTTest(sample1, sample2 []float64) TTestResult {
	n1, n2 := len(sample1), len(sample2)
	if n1 < 2 || n2 < 2 {
		return TTestResult{T: 0, P: 1, DF: 1}
	}

	mean1 := stat.Mean(sample1, nil)
	mean2 := stat.Mean(sample2, nil)
	v1 := stat.Variance(sample1, nil)
	v2 := stat.Variance(sample2, nil)

	se := math.Sqrt(v1/float64(n1) + v2/float64(n2))
	if se == 0 {
		return TTestResult{T: 0, P: 1, DF: 1}
	}

	t := (mean1 - mean2) / se

	num := v1/float64(n1) + v2/float64(n2)
	num *= num
	denom := (v1/float64(n1))*(v1/float64(n1))/float64(n1-1) +
		(v2/float64(n2))*(v2/float64(n2))/float64(n2-1)
	df := 1.0
	if denom > 0 {
		df = num / denom
	}

	p := 2 * (1 - normalCDF(math.Abs(t)))

	return TTestResult{T: t, P: p, DF: df}
}

// normalCDF is the standard normal cumulative distribution function, via the
// error-function identity Φ(x) = 0.5·(1 + erf(x/√2)).
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

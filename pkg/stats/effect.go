package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CohensD computes Cohen's d, the standardized mean difference between two
// independent samples using the pooled standard deviation. It returns 0 when
// either sample has fewer than two observations or when the pooled standard
// deviation is zero (both samples constant and identical): no signal, not an
// error.
func CohensD(sample1, sample2 []float64) float64 {
	n1, n2 := len(sample1), len(sample2)
	if n1 < 2 || n2 < 2 {
		return 0
	}

	mean1 := stat.Mean(sample1, nil)
	mean2 := stat.Mean(sample2, nil)
	v1 := stat.Variance(sample1, nil)
	v2 := stat.Variance(sample2, nil)

	pooled := math.Sqrt((float64(n1-1)*v1 + float64(n2-1)*v2) / float64(n1+n2-2))
	if pooled == 0 {
		return 0
	}

	return (mean1 - mean2) / pooled
}

// EffectSizeLabel classifies the magnitude of an effect size by |d|. Band
// edges are inclusive on the lower side: 0.2 is "small", 0.5 is "medium",
// 0.8 is "large".
func EffectSizeLabel(d float64) string {
	d = math.Abs(d)
	switch {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	default:
		return "large"
	}
}

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelchTTestTooFewObservations(t *testing.T) {
	cases := [][2][]float64{
		{nil, {1, 2, 3}},
		{{1, 2, 3}, nil},
		{{5}, {1, 2, 3}},
		{{1, 2, 3}, {5}},
	}

	for _, c := range cases {
		r := WelchTTest(c[0], c[1])
		assert.Equal(t, 0.0, r.T)
		assert.Equal(t, 1.0, r.P)
		assert.Equal(t, 1.0, r.DF)
	}
}

func TestWelchTTestZeroStandardError(t *testing.T) {
	// Both samples constant: standard error degenerates to zero.
	r := WelchTTest([]float64{5, 5, 5}, []float64{5, 5, 5})
	assert.Equal(t, 0.0, r.T)
	assert.Equal(t, 1.0, r.P)
	assert.Equal(t, 1.0, r.DF)
}

func TestWelchTTestIdenticalSamples(t *testing.T) {
	sample := []float64{1, 2, 3, 4, 5}
	r := WelchTTest(sample, sample)
	assert.InDelta(t, 0.0, r.T, 1e-12)
	assert.InDelta(t, 1.0, r.P, 1e-12)
}

func TestWelchTTestSymmetry(t *testing.T) {
	a := []float64{10, 12, 11, 13}
	b := []float64{8, 9, 8, 10}

	ab := WelchTTest(a, b)
	ba := WelchTTest(b, a)

	assert.InDelta(t, -ba.T, ab.T, 1e-12)
	assert.InDelta(t, ba.P, ab.P, 1e-12)
	assert.InDelta(t, ba.DF, ab.DF, 1e-12)
	assert.Greater(t, ab.T, 0.0)
}

func TestWelchTTestKnownValues(t *testing.T) {
	baseline := []float64{10, 12, 11, 13, 9, 10, 11, 12}
	candidate := []float64{8, 9, 8, 10, 7, 8, 9, 8}

	r := WelchTTest(baseline, candidate)

	assert.InDelta(t, 4.646, r.T, 0.01)
	assert.Less(t, r.P, 0.001)
	assert.Greater(t, r.DF, 1.0)
}

func TestWelchTTestPValueRange(t *testing.T) {
	r := WelchTTest([]float64{1, 2, 3, 4}, []float64{1.5, 2.5, 3.5})
	assert.GreaterOrEqual(t, r.P, 0.0)
	assert.LessOrEqual(t, r.P, 1.0)
}

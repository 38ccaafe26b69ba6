package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeEmpty(t *testing.T) {
	_, err := Describe(nil)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = Describe([]float64{})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestDescribeSingleObservation(t *testing.T) {
	s, err := Describe([]float64{42.5})
	require.NoError(t, err)

	assert.Equal(t, 1, s.N)
	assert.Equal(t, 42.5, s.Mean)
	assert.Equal(t, 0.0, s.Std)
	assert.Equal(t, 42.5, s.Min)
	assert.Equal(t, 42.5, s.Max)
	assert.Equal(t, 42.5, s.CILower)
	assert.Equal(t, 42.5, s.CIUpper)
}

func TestDescribeSmallSample(t *testing.T) {
	s, err := Describe([]float64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 3, s.N)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.Std, 1e-12) // variance (1+0+1)/2
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)

	// n <= 30 uses the flat 2.0 critical value.
	margin := 2.0 * 1.0 / math.Sqrt(3)
	assert.InDelta(t, 2.0-margin, s.CILower, 1e-12)
	assert.InDelta(t, 2.0+margin, s.CIUpper, 1e-12)
}

func TestDescribeLargeSampleCriticalValue(t *testing.T) {
	// 32 observations alternating 1 and 3: mean 2, known variance.
	values := make([]float64, 32)
	for i := range values {
		values[i] = 1
		if i%2 == 1 {
			values[i] = 3
		}
	}

	s, err := Describe(values)
	require.NoError(t, err)

	std := math.Sqrt(32.0 / 31.0)
	margin := 1.96 * std / math.Sqrt(32)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0-margin, s.CILower, 1e-12)
	assert.InDelta(t, 2.0+margin, s.CIUpper, 1e-12)
}

func TestDescribeInvariants(t *testing.T) {
	samples := [][]float64{
		{5.5, 3.2, 8.8, 1.1, 9.9},
		{-4, -2, 0, 2, 4},
		{0.001, 0.002, 0.003},
		{100},
	}

	for _, sample := range samples {
		s, err := Describe(sample)
		require.NoError(t, err)

		assert.LessOrEqual(t, s.Min, s.Mean)
		assert.LessOrEqual(t, s.Mean, s.Max)
		assert.LessOrEqual(t, s.CILower, s.Mean)
		assert.LessOrEqual(t, s.Mean, s.CIUpper)
		assert.GreaterOrEqual(t, s.Std, 0.0)
	}
}

func TestDescribeConstantSample(t *testing.T) {
	s, err := Describe([]float64{7, 7, 7, 7})
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Std)
	assert.Equal(t, 7.0, s.CILower)
	assert.Equal(t, 7.0, s.CIUpper)
}

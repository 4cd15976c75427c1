package trend

import (
	"math"
	"math/rand"
	"testing"

	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		values        []float64
		wantSlope     float64
		wantIntercept float64
		wantFitted    []float64
	}{
		{
			name:          "single value",
			values:        []float64{5.0},
			wantSlope:     0,
			wantIntercept: 5.0,
			wantFitted:    []float64{5.0},
		},
		{
			name:          "perfectly linear",
			values:        []float64{1, 2, 3, 4, 5},
			wantSlope:     1.0,
			wantIntercept: 0.0,
			wantFitted:    []float64{1, 2, 3, 4, 5},
		},
		{
			name:          "constant",
			values:        []float64{2, 2, 2, 2},
			wantSlope:     0.0,
			wantIntercept: 2.0,
			wantFitted:    []float64{2, 2, 2, 2},
		},
		{
			name:          "two points",
			values:        []float64{3, 7},
			wantSlope:     4.0,
			wantIntercept: -1.0,
			wantFitted:    []float64{3, 7},
		},
		{
			name:   "noisy decreasing",
			values: []float64{10, 8, 9, 5},
			// sumX=10 sumY=32 sumXX=30 sumXY=73 -> slope=(292-320)/20
			wantSlope:     -1.4,
			wantIntercept: 11.5,
			wantFitted:    []float64{10.1, 8.7, 7.3, 5.9},
		},
		{
			name:          "negative and zero values",
			values:        []float64{-1, 0, -1, 0},
			wantSlope:     0.2,
			wantIntercept: -1.0,
			wantFitted:    []float64{-0.8, -0.6, -0.4, -0.2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Fit(tt.values)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantSlope, r.Slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, r.Intercept, 1e-9)
			require.Len(t, r.FittedValues, len(tt.values))
			for i, want := range tt.wantFitted {
				assert.InDelta(t, want, r.FittedValues[i], 1e-9, "fitted[%d]", i)
			}
			assert.Equal(t, r.FittedValues[0], r.Start)
			assert.Equal(t, r.FittedValues[len(r.FittedValues)-1], r.End)
		})
	}
}

func TestFitEmpty(t *testing.T) {
	for _, values := range [][]float64{nil, {}} {
		r, err := Fit(values)
		assert.Nil(t, r)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))

		var invErr *errors.InvalidInputError
		assert.True(t, errors.As(err, &invErr))
	}
}

func TestFitSingleValueIsExact(t *testing.T) {
	r, err := Fit([]float64{5.0})
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.Slope)
	assert.Equal(t, 5.0, r.Intercept)
	assert.Equal(t, []float64{5.0}, r.FittedValues)
	assert.Equal(t, 5.0, r.Start)
	assert.Equal(t, 5.0, r.End)
	assert.False(t, math.IsNaN(r.Slope))
}

func TestFitInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, n := range []int{1, 2, 3, 10, 213, 1000} {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64()*50 + float64(i)*0.3
		}

		r, err := Fit(values)
		require.NoError(t, err)
		require.Equal(t, n, r.Len())

		for i, got := range r.FittedValues {
			want := r.Slope*float64(i+1) + r.Intercept
			assert.InDelta(t, want, got, 1e-9*math.Max(1, math.Abs(want)), "n=%d i=%d", n, i)
		}
		assert.Equal(t, r.FittedValues[0], r.Start)
		assert.Equal(t, r.FittedValues[n-1], r.End)
	}
}

func TestFitMatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := make([]float64, 200)
	xs := make([]float64, len(values))
	for i := range values {
		xs[i] = float64(i + 1)
		values[i] = 3.5 - 0.25*xs[i] + rng.NormFloat64()
	}

	r, err := Fit(values)
	require.NoError(t, err)

	alpha, beta := stat.LinearRegression(xs, values, nil, false)
	assert.InDelta(t, beta, r.Slope, 1e-9)
	assert.InDelta(t, alpha, r.Intercept, 1e-7)
}

func TestFitDoesNotMutateInput(t *testing.T) {
	values := []float64{4, -2, 9, 0, 3}
	orig := append([]float64(nil), values...)

	_, err := Fit(values)
	require.NoError(t, err)
	assert.Equal(t, orig, values)
}

func TestFitIsIdempotent(t *testing.T) {
	values := []float64{0.1, 0.7, 0.3, 1.9, 2.2, 1.4}

	a, err := Fit(values)
	require.NoError(t, err)
	b, err := Fit(values)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotSame(t, &a.FittedValues[0], &b.FittedValues[0], "results must not share storage")
}

func TestFitIsOrderSensitive(t *testing.T) {
	asc, err := Fit([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	desc, err := Fit([]float64{4, 3, 2, 1})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, asc.Slope, 1e-12)
	assert.InDelta(t, -1.0, desc.Slope, 1e-12)
	assert.NotEqual(t, asc.FittedValues, desc.FittedValues)
}

func TestResultAt(t *testing.T) {
	r, err := Fit([]float64{2, 4, 6})
	require.NoError(t, err)

	assert.InDelta(t, 8.0, r.At(4), 1e-12)
	assert.InDelta(t, 0.0, r.At(0), 1e-12)
	assert.InDelta(t, r.FittedValues[1], r.At(2), 1e-12)
}

// Package trend fits a simple linear regression ("trendline") to an ordered
// series of observations.
//
// The independent variable is the 1-based position of each observation, so
// the series [y1, y2, ..., yN] is fitted over the points (1, y1) ... (N, yN).
// Fitting is a pure O(N) computation and is safe for concurrent use on
// independent inputs.
package trend

import (
	"github.com/YuminosukeSato/trendline/pkg/errors"
)

// Result is the least-squares line fitted to a series.
type Result struct {
	Slope     float64
	Intercept float64

	// Start and End are the fitted values at the first and last index.
	Start float64
	End   float64

	// FittedValues[i] is Slope*(i+1) + Intercept, one per observation.
	FittedValues []float64
}

// Fit computes the ordinary least-squares line through (i, values[i-1]) for
// i = 1..N. values is not modified.
//
// An empty series returns an error matching errors.ErrInvalidInput. A single
// observation yields a flat line through that value.
func Fit(values []float64) (*Result, error) {
	n := len(values)
	if n == 0 {
		return nil, errors.NewEmptySeriesError("trend.Fit")
	}

	var sumX, sumY, sumXX, sumXY float64
	for i, y := range values {
		x := float64(i + 1)
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	fn := float64(n)
	// The denominator vanishes only for n == 1.
	slope := errors.DivOrZero(fn*sumXY-sumX*sumY, fn*sumXX-sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = slope*float64(i+1) + intercept
	}

	return &Result{
		Slope:        slope,
		Intercept:    intercept,
		Start:        fitted[0],
		End:          fitted[n-1],
		FittedValues: fitted,
	}, nil
}

// At evaluates the fitted line at the 1-based position x. x need not be an
// integer or lie inside the fitted range.
func (r *Result) At(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Len returns the number of fitted values.
func (r *Result) Len() int {
	return len(r.FittedValues)
}

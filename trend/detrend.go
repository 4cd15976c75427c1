package trend

import (
	"github.com/YuminosukeSato/trendline/metrics"
	"github.com/YuminosukeSato/trendline/pkg/errors"
)

// Residuals returns values[i] - r.FittedValues[i] for every index.
func Residuals(values []float64, r *Result) ([]float64, error) {
	if r == nil {
		return nil, errors.NewValueError("trend.Residuals", "nil result")
	}
	if len(values) != len(r.FittedValues) {
		return nil, errors.NewDimensionError("trend.Residuals", len(r.FittedValues), len(values))
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v - r.FittedValues[i]
	}
	return out, nil
}

// Detrend fits values and returns the fit together with its residuals.
func Detrend(values []float64) (*Result, []float64, error) {
	r, err := Fit(values)
	if err != nil {
		return nil, nil, err
	}
	res, err := Residuals(values, r)
	if err != nil {
		return nil, nil, err
	}
	return r, res, nil
}

// Score returns the coefficient of determination of the trendline against
// the observations it was fitted to. A series with no variance has no
// defined R² and returns an error.
func (r *Result) Score(values []float64) (float64, error) {
	score, err := metrics.R2ScoreSlices(values, r.FittedValues)
	if err != nil {
		return 0, errors.Wrap(err, "trend.Score")
	}
	return score, nil
}

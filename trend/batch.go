package trend

import (
	"github.com/YuminosukeSato/trendline/core/parallel"
	"github.com/YuminosukeSato/trendline/pkg/errors"
)

// parallelThreshold is the number of series below which FitAll stays on the
// calling goroutine.
const parallelThreshold = 64

// FitAll fits every series independently. If any series fails, the error of
// the lowest failing index is returned and no results are.
func FitAll(series [][]float64) ([]*Result, error) {
	results := make([]*Result, len(series))

	errs := parallel.ForEach(len(series), parallelThreshold, func(i int) (err error) {
		defer errors.Recover(&err, "trend.FitAll")
		results[i], err = Fit(series[i])
		return err
	})

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "series %d", i)
		}
	}
	return results, nil
}

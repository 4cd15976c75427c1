// Package trendline fits linear trendlines to ordered series and inspects
// what is left once the trend is removed.
//
// The core is a single pure function: trend.Fit computes the ordinary
// least-squares line over the points (1, y1) ... (N, yN) and returns the
// slope, the intercept, the fitted value at every position and the first
// and last fitted values.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/trendline/trend"
//	)
//
//	func main() {
//	    r, err := trend.Fit([]float64{10, 8, 9, 5})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(r.Slope, r.Intercept) // -1.4 11.5
//	    fmt.Println(r.Start, r.End)       // 10.1 5.9
//	}
//
// # Packages
//
//   - trend: Fit, residuals, detrending, direction and batch fitting
//   - anomaly: spike and change-point detection over residuals
//   - dataset: time,value file loading
//   - preprocessing: series standardization and rounding
//   - metrics: MSE, RMSE, MAE, R²
//   - chart: trendline charts via gonum/plot
//   - archive: compact storage of observed and fitted series via mebo
//   - config: YAML run configuration
//   - pipeline: load, fit, detect and write outputs in one call
//   - pkg/errors, pkg/log: error types and structured logging
//
// The trendline command wires these together:
//
//	trendline -data anomaly.csv -chart trend.png -archive trend.mebo
package trendline

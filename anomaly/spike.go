// Package anomaly detects spikes and change points in a detrended series.
//
// Both detectors look only at the residuals that precede each point, so a
// result at index i never depends on values after i.
package anomaly

import (
	"math"

	"github.com/YuminosukeSato/trendline/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultConfidence は検知の信頼度（パーセント）
const DefaultConfidence = 95.0

// MinHistoryLength is the smallest window that can produce a p-value below 1.
// A point needs at least this many preceding values to be judged.
const MinHistoryLength = 2

// Spike はある時点の判定結果
type Spike struct {
	Alert  bool
	Score  float64
	PValue float64
}

// SpikeDetector flags points that are unlikely under a normal model of the
// preceding HistoryLength residuals.
type SpikeDetector struct {
	// Confidence は (0, 100) のパーセント値
	Confidence float64
	// HistoryLength は参照する直前の点の数
	HistoryLength int
}

// NewSpikeDetector returns a detector with the given confidence and history length.
func NewSpikeDetector(confidence float64, historyLength int) *SpikeDetector {
	return &SpikeDetector{Confidence: confidence, HistoryLength: historyLength}
}

// Validate checks the detector parameters.
func (d *SpikeDetector) Validate() error {
	return validateCommon(d.Confidence, d.HistoryLength)
}

// DetectSpikes returns one Spike per residual.
func (d *SpikeDetector) DetectSpikes(residuals []float64) ([]Spike, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if len(residuals) == 0 {
		return nil, errors.NewEmptySeriesError("anomaly.DetectSpikes")
	}
	if err := errors.CheckNumericalStability("anomaly.DetectSpikes", residuals); err != nil {
		return nil, err
	}

	alpha := 1 - d.Confidence/100
	out := make([]Spike, len(residuals))
	for i, v := range residuals {
		p := pValue(residuals, i, d.HistoryLength)
		out[i] = Spike{
			Alert:  p < alpha,
			Score:  v,
			PValue: p,
		}
	}
	return out, nil
}

// pValue は直前の履歴から推定した正規分布に対する両側p値を返す
func pValue(values []float64, i, history int) float64 {
	lo := i - history
	if lo < 0 {
		lo = 0
	}
	window := values[lo:i]
	if len(window) < MinHistoryLength {
		return 1
	}

	mean, std := stat.MeanStdDev(window, nil)
	if std == 0 || math.IsNaN(std) {
		return 1
	}

	dist := distuv.Normal{Mu: mean, Sigma: std}
	cdf := dist.CDF(values[i])
	return math.Min(1, 2*math.Min(cdf, 1-cdf))
}

func validateCommon(confidence float64, history int) error {
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 100 {
		return errors.NewValidationError("Confidence", "must be in (0, 100)", confidence)
	}
	if history < 1 {
		return errors.NewValidationError("HistoryLength", "must be at least 1", history)
	}
	return nil
}

// CountAlerts returns how many spikes raised an alert.
func CountAlerts(spikes []Spike) int {
	n := 0
	for _, s := range spikes {
		if s.Alert {
			n++
		}
	}
	return n
}

package anomaly

import (
	"math"

	"github.com/YuminosukeSato/trendline/pkg/errors"
)

// DefaultMartingaleEpsilon is the power martingale exponent used when none is given.
const DefaultMartingaleEpsilon = 0.1

// p値の下限。log(0) を避ける
const minPValue = 1e-12

// ChangePoint はある時点の変化点判定結果
type ChangePoint struct {
	Alert      bool
	Score      float64
	PValue     float64
	Martingale float64
}

// ChangePointDetector accumulates a power martingale over the spike p-values
// and raises an alert when it crosses the confidence threshold.
type ChangePointDetector struct {
	Confidence    float64
	HistoryLength int
	// Epsilon はパワーマーチンゲールの指数 (0, 1)
	Epsilon float64
}

// NewChangePointDetector returns a detector using DefaultMartingaleEpsilon.
func NewChangePointDetector(confidence float64, historyLength int) *ChangePointDetector {
	return &ChangePointDetector{
		Confidence:    confidence,
		HistoryLength: historyLength,
		Epsilon:       DefaultMartingaleEpsilon,
	}
}

// Validate checks the detector parameters.
func (d *ChangePointDetector) Validate() error {
	if err := validateCommon(d.Confidence, d.HistoryLength); err != nil {
		return err
	}
	if math.IsNaN(d.Epsilon) || d.Epsilon <= 0 || d.Epsilon >= 1 {
		return errors.NewValidationError("Epsilon", "must be in (0, 1)", d.Epsilon)
	}
	return nil
}

// Threshold returns the log-martingale level at which an alert is raised.
func (d *ChangePointDetector) Threshold() float64 {
	return math.Log(100 / (100 - d.Confidence))
}

// DetectChangePoints returns one ChangePoint per residual.
//
// The log martingale is floored at zero and restarts from zero after each alert.
func (d *ChangePointDetector) DetectChangePoints(residuals []float64) ([]ChangePoint, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	spikes, err := (&SpikeDetector{Confidence: d.Confidence, HistoryLength: d.HistoryLength}).DetectSpikes(residuals)
	if err != nil {
		return nil, errors.Wrap(err, "anomaly.DetectChangePoints")
	}

	threshold := d.Threshold()
	logEps := math.Log(d.Epsilon)
	logM := 0.0

	out := make([]ChangePoint, len(spikes))
	for i, s := range spikes {
		p := math.Max(s.PValue, minPValue)
		logM = math.Max(0, logM+logEps+(d.Epsilon-1)*math.Log(p))

		cp := ChangePoint{
			Score:      s.Score,
			PValue:     s.PValue,
			Martingale: math.Exp(logM),
		}
		if logM >= threshold {
			cp.Alert = true
			logM = 0
		}
		out[i] = cp
	}
	return out, nil
}

// CountChangePoints returns how many points raised a change-point alert.
func CountChangePoints(points []ChangePoint) int {
	n := 0
	for _, p := range points {
		if p.Alert {
			n++
		}
	}
	return n
}

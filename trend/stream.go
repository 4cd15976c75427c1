package trend

import (
	"context"

	"github.com/YuminosukeSato/trendline/pkg/errors"
)

// Line is a fitted trendline without per-point values, for series too long
// to keep in memory.
type Line struct {
	Slope     float64
	Intercept float64
	Start     float64
	End       float64
	N         int
}

// At evaluates the line at the 1-based position x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Accumulator fits a trendline incrementally. Values are numbered 1, 2, ...
// in the order they are added. Feeding a series in any chunking gives the
// same Slope and Intercept as Fit on the whole series.
//
// The zero value is ready to use. An Accumulator is not safe for concurrent use.
type Accumulator struct {
	n                        int
	sumX, sumY, sumXX, sumXY float64
}

// Add appends observations.
func (a *Accumulator) Add(values ...float64) {
	for _, y := range values {
		a.n++
		x := float64(a.n)
		a.sumX += x
		a.sumY += y
		a.sumXX += x * x
		a.sumXY += x * y
	}
}

// N returns the number of observations added so far.
func (a *Accumulator) N() int {
	return a.n
}

// Reset discards all observations.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Line returns the trendline of the observations added so far.
func (a *Accumulator) Line() (Line, error) {
	if a.n == 0 {
		return Line{}, errors.NewEmptySeriesError("trend.Accumulator")
	}
	fn := float64(a.n)
	slope := errors.DivOrZero(fn*a.sumXY-a.sumX*a.sumY, fn*a.sumXX-a.sumX*a.sumX)
	intercept := (a.sumY - slope*a.sumX) / fn
	return Line{
		Slope:     slope,
		Intercept: intercept,
		Start:     slope + intercept,
		End:       slope*fn + intercept,
		N:         a.n,
	}, nil
}

// FitStream consumes chunks until the channel is closed or ctx is done.
func FitStream(ctx context.Context, chunks <-chan []float64) (Line, error) {
	var acc Accumulator
	for {
		select {
		case <-ctx.Done():
			return Line{}, errors.Wrap(ctx.Err(), "trend.FitStream")
		case chunk, ok := <-chunks:
			if !ok {
				return acc.Line()
			}
			acc.Add(chunk...)
		}
	}
}

// Line drops the per-point values of r.
func (r *Result) Line() Line {
	return Line{
		Slope:     r.Slope,
		Intercept: r.Intercept,
		Start:     r.Start,
		End:       r.End,
		N:         len(r.FittedValues),
	}
}

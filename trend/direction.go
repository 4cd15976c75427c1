package trend

import (
	"math"

	"github.com/YuminosukeSato/trendline/pkg/errors"
)

// Direction is the sign of a trendline's slope after applying a dead band.
type Direction int

const (
	Down Direction = -1
	Flat Direction = 0
	Up   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "flat"
	}
}

// Classify maps slope to a Direction, treating |slope| <= epsilon as Flat.
func Classify(slope, epsilon float64) (Direction, error) {
	if epsilon < 0 || math.IsNaN(epsilon) {
		return Flat, errors.NewValidationError("epsilon", "must be non-negative", epsilon)
	}
	switch {
	case slope > epsilon:
		return Up, nil
	case slope < -epsilon:
		return Down, nil
	default:
		return Flat, nil
	}
}

// Direction classifies the fitted slope. Invalid epsilon is treated as 0.
func (r *Result) Direction(epsilon float64) Direction {
	d, err := Classify(r.Slope, epsilon)
	if err != nil {
		d, _ = Classify(r.Slope, 0)
	}
	return d
}

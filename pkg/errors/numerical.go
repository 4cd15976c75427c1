package errors

import (
	"math"
)

// DivOrZero divides num by den and returns 0 when den is exactly zero.
// Near-zero denominators are divided normally.
func DivOrZero(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// CheckNumericalStability returns a NumericalInstabilityError pointing at the
// first NaN or Inf in values.
func CheckNumericalStability(operation string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, []float64{v}, i)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, -1)
	}
	return nil
}

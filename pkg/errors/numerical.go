package errors

import (
	"math"
)

// CheckValues returns a NumericalInstabilityError if values contain NaN or
// Inf. Used by the iterative solvers to fail fast instead of propagating
// garbage coefficients.
func CheckValues(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckMatrix returns a NumericalInstabilityError if any matrix entry is
// NaN or Inf. The dataset loader uses it to enforce the no-missing-values
// invariant before evaluation starts.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewNumericalInstabilityError(operation, []float64{v}, 0)
			}
		}
	}
	return nil
}

package metrics

import (
	"math"

	"github.com/oenolab/winebench/pkg/errors"
)

// Accuracy computes the fraction of exact matches between true and
// predicted labels. Continuous predictions must be rounded by the caller
// before comparison (the evaluator's label policy decides this).
func Accuracy(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty input")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Round rounds continuous predictions to the nearest integer label so that
// regression-style outputs can be scored as classifications.
func Round(yPred []float64) []float64 {
	out := make([]float64, len(yPred))
	for i, v := range yPred {
		out[i] = math.Round(v)
	}
	return out
}

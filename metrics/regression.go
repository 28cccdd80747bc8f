// Package metrics implements the three benchmark metrics: exact-match
// accuracy, mean absolute error, and multiclass AUC.
package metrics

import (
	"math"

	"github.com/oenolab/winebench/pkg/errors"
)

// MAE computes the mean absolute error between true and predicted values.
// Predictions are used as-is; the evaluator deliberately passes unrounded
// model outputs here.
func MAE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty input")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MAE", n, len(yPred), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(n), nil
}

// MSE computes the mean squared error. Used by the inner model-selection
// loops (principal component count, penalty strength).
func MSE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty input")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MSE", n, len(yPred), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE is the square root of MSE.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

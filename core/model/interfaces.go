// Package model defines the estimator interfaces shared by the winebench
// model packages and the fitted-state bookkeeping they embed.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is a model that can be trained on a feature matrix and targets.
type Fitter interface {
	// Fit trains the model on X (n×p) and y (n×1).
	Fit(X, y mat.Matrix) error
}

// Predictor is a fitted model that can produce predictions.
type Predictor interface {
	// Predict returns an n×1 matrix of predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor is the contract satisfied by the regression models.
type Regressor interface {
	Fitter
	Predictor
}

// Classifier is the contract satisfied by the classification models.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns an n×k matrix of class probability estimates.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the distinct class values seen during fitting,
	// in ascending order.
	Classes() []float64
}

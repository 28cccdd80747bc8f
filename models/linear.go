package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/linear"
	"github.com/oenolab/winebench/pkg/errors"
	"github.com/oenolab/winebench/pkg/log"
	"github.com/oenolab/winebench/preprocessing"
)

// DefaultPenaltyGrid is the λ grid searched when the configuration does
// not supply one, spanning six decades.
var DefaultPenaltyGrid = []float64{0.001, 0.01, 0.1, 1, 10, 100}

// OLS wraps ordinary least-squares regression on the raw features.
func OLS() crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		reg := linear.NewLinearRegression()
		if err := reg.Fit(X, yColumn(y)); err != nil {
			return nil, err
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			pred, err := reg.Predict(Xt)
			if err != nil {
				return nil, err
			}
			return flatten(pred), nil
		}, nil
	}
}

// RidgeCV wraps L2-penalized regression with the penalty strength chosen
// per training partition by nested cross-validation over grid.
func RidgeCV(grid []float64, innerK int) crossval.FitFunc {
	return penalized("ridge", grid, innerK, func(lambda float64) model.Regressor {
		return linear.NewRidge(lambda)
	})
}

// LassoCV wraps L1-penalized regression with the penalty strength chosen
// per training partition by nested cross-validation over grid.
func LassoCV(grid []float64, innerK int) crossval.FitFunc {
	return penalized("lasso", grid, innerK, func(lambda float64) model.Regressor {
		return linear.NewLasso(lambda)
	})
}

// penalized standardizes the features, selects λ on the training
// partition only, and refits at the winning strength. Standardization
// statistics come from the training partition, so no test information
// leaks into the fit.
func penalized(name string, grid []float64, innerK int, newReg func(lambda float64) model.Regressor) crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		if len(grid) == 0 {
			return nil, errors.NewValidationError("grid", "must not be empty", grid)
		}

		scaler := preprocessing.NewStandardScaler()
		Xs, err := scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}

		lambda, err := selectPenalty(Xs, y, grid, innerK, newReg)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: selecting penalty", name)
		}
		log.GetLogger().Debug("penalty selected",
			log.ModelNameKey, name, log.LambdaKey, lambda)

		reg := newReg(lambda)
		if err := reg.Fit(Xs, yColumn(y)); err != nil {
			return nil, err
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			Xts, err := scaler.Transform(Xt)
			if err != nil {
				return nil, err
			}
			pred, err := reg.Predict(Xts)
			if err != nil {
				return nil, err
			}
			return flatten(pred), nil
		}, nil
	}
}

// selectPenalty returns the grid value with the lowest nested-CV mean
// squared error. Ties keep the earlier grid entry, so ordering the grid
// ascending prefers the weaker penalty.
func selectPenalty(X *mat.Dense, y []float64, grid []float64, innerK int, newReg func(lambda float64) model.Regressor) (float64, error) {
	bestLambda := grid[0]
	bestErr := 0.0
	for i, lambda := range grid {
		cvErr, err := innerCVError(X, y, innerK, func() model.Regressor {
			return newReg(lambda)
		})
		if err != nil {
			return 0, err
		}
		if i == 0 || cvErr < bestErr {
			bestLambda = lambda
			bestErr = cvErr
		}
	}
	return bestLambda, nil
}

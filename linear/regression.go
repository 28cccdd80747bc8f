// Package linear implements the linear models of the benchmark: ordinary
// least squares, ridge, and lasso regression.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
)

// LinearRegression is an ordinary least-squares regressor solved by QR
// factorization of the design matrix with an intercept column.
type LinearRegression struct {
	model.BaseEstimator
	Weights   *mat.VecDense // coefficients, one per feature
	Intercept float64
	NFeatures int
}

// NewLinearRegression creates an unfitted LinearRegression.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit estimates the coefficients from X (n×p) and y (n×1).
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("LinearRegression.Fit", 1, cy, 1)
	}
	if r < c+1 {
		return errors.NewValueError("LinearRegression.Fit", "more coefficients than samples")
	}

	// Design matrix with a leading intercept column.
	design := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < c; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}

	var qr mat.QR
	qr.Factorize(design)
	coef := mat.NewDense(c+1, 1, nil)
	if err := qr.SolveTo(coef, false, y); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "solving normal equations", errors.ErrSingularMatrix)
	}

	lr.Intercept = coef.At(0, 0)
	lr.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.Weights.SetVec(j, coef.At(j+1, 0))
	}
	lr.NFeatures = c
	lr.SetFitted()
	return nil
}

// Predict returns an n×1 matrix of fitted values for X.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := lr.Intercept
		for j := 0; j < c; j++ {
			sum += X.At(i, j) * lr.Weights.AtVec(j)
		}
		out.Set(i, 0, sum)
	}
	return out, nil
}

// Score returns the coefficient of determination R² on (X, y).
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()

	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	var rss, tss float64
	for i := 0; i < r; i++ {
		diff := y.At(i, 0) - pred.At(i, 0)
		rss += diff * diff
		dev := y.At(i, 0) - yMean
		tss += dev * dev
	}
	if tss == 0 {
		return 0, errors.NewValueError("LinearRegression.Score", "no variance in y")
	}
	return 1 - rss/tss, nil
}

// RSS returns the residual sum of squares on (X, y). Best-subset selection
// ranks candidate feature subsets of equal size by RSS.
func (lr *LinearRegression) RSS(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	var rss float64
	for i := 0; i < r; i++ {
		diff := y.At(i, 0) - pred.At(i, 0)
		rss += diff * diff
	}
	return rss, nil
}

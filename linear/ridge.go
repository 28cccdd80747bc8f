package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
)

// Ridge is an L2-penalized least-squares regressor. Features and target
// are centered internally so the intercept stays unpenalized.
type Ridge struct {
	model.BaseEstimator
	Lambda    float64
	Weights   *mat.VecDense
	Intercept float64
	NFeatures int
}

// NewRidge creates an unfitted ridge regressor with penalty strength
// lambda.
func NewRidge(lambda float64) *Ridge {
	return &Ridge{Lambda: lambda}
}

// Fit solves (Xc'Xc + λI) w = Xc'yc on the centered data.
func (rr *Ridge) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("Ridge.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("Ridge.Fit", 1, cy, 1)
	}
	if rr.Lambda < 0 {
		return errors.NewValidationError("lambda", "must be non-negative", rr.Lambda)
	}

	xMean := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			xMean[j] += X.At(i, j)
		}
		xMean[j] /= float64(r)
	}
	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	xc := mat.NewDense(r, c, nil)
	yc := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			xc.Set(i, j, X.At(i, j)-xMean[j])
		}
		yc.SetVec(i, y.At(i, 0)-yMean)
	}

	// gram = Xc'Xc + λI
	gram := mat.NewSymDense(c, nil)
	for j := 0; j < c; j++ {
		for k := j; k < c; k++ {
			var sum float64
			for i := 0; i < r; i++ {
				sum += xc.At(i, j) * xc.At(i, k)
			}
			if j == k {
				sum += rr.Lambda
			}
			gram.SetSym(j, k, sum)
		}
	}

	rhs := mat.NewVecDense(c, nil)
	rhs.MulVec(xc.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return errors.NewModelError("Ridge.Fit", "gram matrix not positive definite", errors.ErrSingularMatrix)
	}
	w := mat.NewVecDense(c, nil)
	if err := chol.SolveVecTo(w, rhs); err != nil {
		return errors.NewModelError("Ridge.Fit", "solving penalized system", err)
	}

	rr.Weights = w
	rr.Intercept = yMean
	for j := 0; j < c; j++ {
		rr.Intercept -= w.AtVec(j) * xMean[j]
	}
	rr.NFeatures = c
	rr.SetFitted()
	return nil
}

// Predict returns an n×1 matrix of fitted values for X.
func (rr *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rr.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}
	r, c := X.Dims()
	if c != rr.NFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", rr.NFeatures, c, 1)
	}
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := rr.Intercept
		for j := 0; j < c; j++ {
			sum += X.At(i, j) * rr.Weights.AtVec(j)
		}
		out.Set(i, 0, sum)
	}
	return out, nil
}

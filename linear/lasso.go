package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
)

// Lasso is an L1-penalized least-squares regressor fitted by cyclic
// coordinate descent with soft thresholding. Features and target are
// centered internally; the intercept is unpenalized.
type Lasso struct {
	model.BaseEstimator
	Lambda    float64
	MaxIter   int
	Tol       float64
	Weights   *mat.VecDense
	Intercept float64
	NFeatures int
}

// NewLasso creates an unfitted lasso regressor with penalty strength
// lambda and default solver settings.
func NewLasso(lambda float64) *Lasso {
	return &Lasso{
		Lambda:  lambda,
		MaxIter: 1000,
		Tol:     1e-6,
	}
}

// Fit runs coordinate descent until the largest coefficient update falls
// below Tol or MaxIter sweeps are exhausted. Hitting the cap raises a
// ConvergenceWarning but still returns the current coefficients.
func (ls *Lasso) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("Lasso.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("Lasso.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("Lasso.Fit", 1, cy, 1)
	}
	if ls.Lambda < 0 {
		return errors.NewValidationError("lambda", "must be non-negative", ls.Lambda)
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
	yc := make([]float64, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			xc.Set(i, j, X.At(i, j)-xMean[j])
		}
		yc[i] = y.At(i, 0) - yMean
	}

	// Per-column squared norms; constant columns keep a zero coefficient.
	colNorm := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v := xc.At(i, j)
			colNorm[j] += v * v
		}
	}

	w := make([]float64, c)
	residual := make([]float64, r)
	copy(residual, yc)

	// The soft-threshold parameter scales with n, matching the
	// (1/2n)||y-Xw||² + λ||w||₁ objective.
	threshold := ls.Lambda * float64(r)

	converged := false
	iter := 0
	for ; iter < ls.MaxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < c; j++ {
			if colNorm[j] == 0 {
				continue
			}
			// rho = x_j' (residual + x_j * w_j)
			var rho float64
			for i := 0; i < r; i++ {
				rho += xc.At(i, j) * residual[i]
			}
			rho += colNorm[j] * w[j]

			newW := softThreshold(rho, threshold) / colNorm[j]
			delta := newW - w[j]
			if delta != 0 {
				for i := 0; i < r; i++ {
					residual[i] -= xc.At(i, j) * delta
				}
				w[j] = newW
			}
			if math.Abs(delta) > maxDelta {
				maxDelta = math.Abs(delta)
			}
		}
		if err := errors.CheckValues("Lasso.Fit", w, iter); err != nil {
			return err
		}
		if maxDelta < ls.Tol {
			converged = true
			break
		}
	}
	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Lasso", ls.MaxIter, ""))
	}

	ls.Weights = mat.NewVecDense(c, w)
	ls.Intercept = yMean
	for j := 0; j < c; j++ {
		ls.Intercept -= w[j] * xMean[j]
	}
	ls.NFeatures = c
	ls.SetFitted()
	return nil
}

// Predict returns an n×1 matrix of fitted values for X.
func (ls *Lasso) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !ls.IsFitted() {
		return nil, errors.NewNotFittedError("Lasso", "Predict")
	}
	r, c := X.Dims()
	if c != ls.NFeatures {
		return nil, errors.NewDimensionError("Lasso.Predict", ls.NFeatures, c, 1)
	}
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := ls.Intercept
		for j := 0; j < c; j++ {
			sum += X.At(i, j) * ls.Weights.AtVec(j)
		}
		out.Set(i, 0, sum)
	}
	return out, nil
}

func softThreshold(rho, threshold float64) float64 {
	switch {
	case rho > threshold:
		return rho - threshold
	case rho < -threshold:
		return rho + threshold
	default:
		return 0
	}
}

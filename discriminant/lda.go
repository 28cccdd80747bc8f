// Package discriminant implements linear discriminant analysis for the
// quality labels.
package discriminant

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
)

// LDA is a linear discriminant classifier with a pooled within-class
// covariance. Posterior scores are linear in x, so class boundaries are
// hyperplanes.
type LDA struct {
	model.BaseEstimator

	classes []float64
	priors  []float64
	means   *mat.Dense // k×p class means
	// sigmaInvMeans holds Σ⁻¹μ_c per class (k×p), precomputed at fit.
	sigmaInvMeans *mat.Dense
	// constTerm holds -½ μ_c'Σ⁻¹μ_c + log π_c per class.
	constTerm []float64
	nFeatures int
}

// NewLDA creates an unfitted LDA classifier.
func NewLDA() *LDA {
	return &LDA{}
}

// Fit estimates class priors, means, and the pooled covariance from X and
// the n×1 label matrix y.
func (l *LDA) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LDA.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LDA.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("LDA.Fit", 1, cy, 1)
	}

	byClass := map[float64][]int{}
	for i := 0; i < r; i++ {
		label := y.At(i, 0)
		byClass[label] = append(byClass[label], i)
	}
	if len(byClass) < 2 {
		return errors.Wrap(errors.ErrSingleClass, "LDA.Fit")
	}
	classes := make([]float64, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Float64s(classes)

	k := len(classes)
	means := mat.NewDense(k, c, nil)
	priors := make([]float64, k)
	for ci, label := range classes {
		rows := byClass[label]
		priors[ci] = float64(len(rows)) / float64(r)
		for _, i := range rows {
			for j := 0; j < c; j++ {
				means.Set(ci, j, means.At(ci, j)+X.At(i, j))
			}
		}
		for j := 0; j < c; j++ {
			means.Set(ci, j, means.At(ci, j)/float64(len(rows)))
		}
	}

	// Pooled within-class covariance with denominator n-k.
	if r <= k {
		return errors.NewValueError("LDA.Fit", "not enough samples to pool covariance")
	}
	cov := mat.NewSymDense(c, nil)
	for ci, label := range classes {
		for _, i := range byClass[label] {
			for a := 0; a < c; a++ {
				da := X.At(i, a) - means.At(ci, a)
				for b := a; b < c; b++ {
					db := X.At(i, b) - means.At(ci, b)
					cov.SetSym(a, b, cov.At(a, b)+da*db)
				}
			}
		}
	}
	scale := 1.0 / float64(r-k)
	for a := 0; a < c; a++ {
		for b := a; b < c; b++ {
			cov.SetSym(a, b, cov.At(a, b)*scale)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		// Regularize a near-singular pooled covariance once before
		// giving up.
		for a := 0; a < c; a++ {
			cov.SetSym(a, a, cov.At(a, a)+1e-6)
		}
		if ok := chol.Factorize(cov); !ok {
			return errors.NewModelError("LDA.Fit", "pooled covariance is singular", errors.ErrSingularMatrix)
		}
	}

	sigmaInvMeans := mat.NewDense(k, c, nil)
	constTerm := make([]float64, k)
	tmp := mat.NewVecDense(c, nil)
	mean := mat.NewVecDense(c, nil)
	for ci := 0; ci < k; ci++ {
		for j := 0; j < c; j++ {
			mean.SetVec(j, means.At(ci, j))
		}
		if err := chol.SolveVecTo(tmp, mean); err != nil {
			return errors.NewModelError("LDA.Fit", "solving discriminant system", err)
		}
		for j := 0; j < c; j++ {
			sigmaInvMeans.Set(ci, j, tmp.AtVec(j))
		}
		constTerm[ci] = -0.5*mat.Dot(mean, tmp) + math.Log(priors[ci])
	}

	l.classes = classes
	l.priors = priors
	l.means = means
	l.sigmaInvMeans = sigmaInvMeans
	l.constTerm = constTerm
	l.nFeatures = c
	l.SetFitted()
	return nil
}

// Predict returns the class with the highest discriminant score per row.
func (l *LDA) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := l.decision(X)
	if err != nil {
		return nil, err
	}
	r, _ := scores.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		for ci := 1; ci < len(l.classes); ci++ {
			if scores.At(i, ci) > scores.At(i, best) {
				best = ci
			}
		}
		out.Set(i, 0, l.classes[best])
	}
	return out, nil
}

// PredictProba returns posterior class probabilities via a softmax over
// the discriminant scores, which is exact under the shared-covariance
// Gaussian model.
func (l *LDA) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := l.decision(X)
	if err != nil {
		return nil, err
	}
	r, k := scores.Dims()
	out := mat.NewDense(r, k, nil)
	for i := 0; i < r; i++ {
		maxScore := scores.At(i, 0)
		for ci := 1; ci < k; ci++ {
			if scores.At(i, ci) > maxScore {
				maxScore = scores.At(i, ci)
			}
		}
		var sum float64
		for ci := 0; ci < k; ci++ {
			v := math.Exp(scores.At(i, ci) - maxScore)
			out.Set(i, ci, v)
			sum += v
		}
		for ci := 0; ci < k; ci++ {
			out.Set(i, ci, out.At(i, ci)/sum)
		}
	}
	return out, nil
}

// Classes returns the fitted class values in ascending order.
func (l *LDA) Classes() []float64 {
	out := make([]float64, len(l.classes))
	copy(out, l.classes)
	return out
}

func (l *LDA) decision(X mat.Matrix) (*mat.Dense, error) {
	if !l.IsFitted() {
		return nil, errors.NewNotFittedError("LDA", "Predict")
	}
	r, c := X.Dims()
	if c != l.nFeatures {
		return nil, errors.NewDimensionError("LDA.Predict", l.nFeatures, c, 1)
	}
	k := len(l.classes)
	scores := mat.NewDense(r, k, nil)
	for i := 0; i < r; i++ {
		for ci := 0; ci < k; ci++ {
			sum := l.constTerm[ci]
			for j := 0; j < c; j++ {
				sum += X.At(i, j) * l.sigmaInvMeans.At(ci, j)
			}
			scores.Set(i, ci, sum)
		}
	}
	return scores, nil
}

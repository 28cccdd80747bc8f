// Package bayes implements Gaussian naive Bayes for continuous
// physicochemical features.
package bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
)

// GaussianNB models each feature as an independent normal distribution per
// class and classifies by maximum posterior log-likelihood.
type GaussianNB struct {
	model.BaseEstimator

	classes   []float64
	logPriors []float64
	// dists[ci][j] is the fitted normal of feature j within class ci.
	dists     [][]distuv.Normal
	nFeatures int

	// VarSmoothing is added to every per-class variance, as a fraction
	// of the largest feature variance, to keep densities finite for
	// near-constant features.
	VarSmoothing float64
}

// NewGaussianNB creates an unfitted GaussianNB with default smoothing.
func NewGaussianNB() *GaussianNB {
	return &GaussianNB{VarSmoothing: 1e-9}
}

// Fit estimates per-class feature means and variances from X and the n×1
// label matrix y.
func (nb *GaussianNB) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("GaussianNB.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("GaussianNB.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("GaussianNB.Fit", 1, cy, 1)
	}

	byClass := map[float64][]int{}
	for i := 0; i < r; i++ {
		label := y.At(i, 0)
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]float64, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Float64s(classes)

	// Global largest feature variance anchors the smoothing term.
	var maxVar float64
	for j := 0; j < c; j++ {
		var sum, sumSq float64
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			sum += v
			sumSq += v * v
		}
		meanJ := sum / float64(r)
		if v := sumSq/float64(r) - meanJ*meanJ; v > maxVar {
			maxVar = v
		}
	}
	smoothing := nb.VarSmoothing * maxVar
	if smoothing <= 0 {
		smoothing = nb.VarSmoothing
	}

	k := len(classes)
	nb.logPriors = make([]float64, k)
	nb.dists = make([][]distuv.Normal, k)
	for ci, label := range classes {
		rowIdx := byClass[label]
		nb.logPriors[ci] = math.Log(float64(len(rowIdx)) / float64(r))
		nb.dists[ci] = make([]distuv.Normal, c)
		for j := 0; j < c; j++ {
			var sum float64
			for _, i := range rowIdx {
				sum += X.At(i, j)
			}
			meanJ := sum / float64(len(rowIdx))
			var sse float64
			for _, i := range rowIdx {
				d := X.At(i, j) - meanJ
				sse += d * d
			}
			variance := sse/float64(len(rowIdx)) + smoothing
			nb.dists[ci][j] = distuv.Normal{Mu: meanJ, Sigma: math.Sqrt(variance)}
		}
	}

	nb.classes = classes
	nb.nFeatures = c
	nb.SetFitted()
	return nil
}

// Predict returns the maximum-posterior class per row.
func (nb *GaussianNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	ll, err := nb.jointLogLikelihood(X)
	if err != nil {
		return nil, err
	}
	r, _ := ll.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		for ci := 1; ci < len(nb.classes); ci++ {
			if ll.At(i, ci) > ll.At(i, best) {
				best = ci
			}
		}
		out.Set(i, 0, nb.classes[best])
	}
	return out, nil
}

// PredictProba returns normalized posterior probabilities per class.
func (nb *GaussianNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	ll, err := nb.jointLogLikelihood(X)
	if err != nil {
		return nil, err
	}
	r, k := ll.Dims()
	out := mat.NewDense(r, k, nil)
	for i := 0; i < r; i++ {
		maxLL := ll.At(i, 0)
		for ci := 1; ci < k; ci++ {
			if ll.At(i, ci) > maxLL {
				maxLL = ll.At(i, ci)
			}
		}
		var sum float64
		for ci := 0; ci < k; ci++ {
			v := math.Exp(ll.At(i, ci) - maxLL)
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
func (nb *GaussianNB) Classes() []float64 {
	out := make([]float64, len(nb.classes))
	copy(out, nb.classes)
	return out
}

func (nb *GaussianNB) jointLogLikelihood(X mat.Matrix) (*mat.Dense, error) {
	if !nb.IsFitted() {
		return nil, errors.NewNotFittedError("GaussianNB", "Predict")
	}
	r, c := X.Dims()
	if c != nb.nFeatures {
		return nil, errors.NewDimensionError("GaussianNB.Predict", nb.nFeatures, c, 1)
	}
	k := len(nb.classes)
	out := mat.NewDense(r, k, nil)
	for i := 0; i < r; i++ {
		for ci := 0; ci < k; ci++ {
			ll := nb.logPriors[ci]
			for j := 0; j < c; j++ {
				ll += nb.dists[ci][j].LogProb(X.At(i, j))
			}
			out.Set(i, ci, ll)
		}
	}
	return out, nil
}

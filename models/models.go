// Package models assembles the benchmark entries. Every statistical
// learning method is wrapped into the same fit/predict closure pair the
// cross-validation evaluator consumes, so adding a method never touches
// the evaluator.
package models

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/config"
	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/dataset"
	"github.com/oenolab/winebench/metrics"
	"github.com/oenolab/winebench/pkg/errors"
)

// BestSubsetName is the report name of the best-subset entry. It is not
// part of Build's registry because it re-invokes the evaluator itself;
// see EvaluateBestSubset.
const BestSubsetName = "best-subset"

// innerSeed seeds the nested cross-validation splits used for
// hyperparameter selection. Fixed so reruns pick identical settings.
const innerSeed = 1

// Build returns the registered benchmark models for one dataset. The
// dataset is consulted only for its feature names, feature count, and
// label vocabulary; no fitting happens here.
func Build(ds *dataset.Dataset, cfg config.ModelsConfig) []crossval.Model {
	p := ds.NumFeatures()
	classes := ds.Classes()
	names := ds.FeatureNames

	grid := cfg.Penalty.Grid
	if len(grid) == 0 {
		grid = DefaultPenaltyGrid
	}
	innerK := cfg.Penalty.InnerFolds
	if innerK < 2 {
		innerK = 5
	}
	width := cfg.Forest.Width
	if width <= 0 || width > p {
		width = int(math.Sqrt(float64(p)))
		if width < 1 {
			width = 1
		}
	}

	return []crossval.Model{
		{Name: "ols", Policy: crossval.ContinuousRounded, Fit: OLS()},
		{Name: "ridge", Policy: crossval.ContinuousRounded, Fit: RidgeCV(grid, innerK)},
		{Name: "lasso", Policy: crossval.ContinuousRounded, Fit: LassoCV(grid, innerK)},
		{Name: "pcr", Policy: crossval.ContinuousRounded, Fit: PCRegression(innerK)},
		{Name: "lda", Policy: crossval.DiscreteExact, Fit: Discriminant()},
		{Name: "naive-bayes", Policy: crossval.DiscreteExact, Fit: NaiveBayes()},
		{Name: "cart", Policy: crossval.DiscreteExact, Fit: CART()},
		{Name: "id3", Policy: crossval.DiscreteExact, Fit: ID3Tree(names, classes)},
		{Name: "knn", Policy: crossval.DiscreteExact, Fit: KNN(names, classes, 1)},
		{Name: "forest", Policy: crossval.DiscreteExact, Fit: Forest(cfg.Forest.Trees, width, names, classes)},
		// Bagging is the forest with the subsampling width opened up to
		// the full feature count.
		{Name: "bagging", Policy: crossval.DiscreteExact, Fit: Forest(cfg.Forest.Trees, p, names, classes)},
		{Name: "boosting", Policy: crossval.ContinuousRounded, Fit: Boosting(cfg.Boosting)},
	}
}

// Filter restricts the registry to the named models, preserving registry
// order. An empty enabled list keeps everything.
func Filter(ms []crossval.Model, enabled []string) ([]crossval.Model, error) {
	if len(enabled) == 0 {
		return ms, nil
	}
	want := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		if name == BestSubsetName {
			continue
		}
		want[name] = true
	}
	out := make([]crossval.Model, 0, len(want))
	for _, m := range ms {
		if want[m.Name] {
			out = append(out, m)
			delete(want, m.Name)
		}
	}
	for name := range want {
		return nil, errors.NewValidationError("models.enabled", "unknown model", name)
	}
	return out, nil
}

// innerCVError returns the mean squared prediction error of the candidate
// regressor under a k-fold split of the training partition. The split is
// seeded independently of the outer folds, so selection is deterministic.
func innerCVError(X *mat.Dense, y []float64, k int, newReg func() model.Regressor) (float64, error) {
	rng := rand.New(rand.NewPCG(innerSeed, innerSeed))
	folds, err := crossval.StratifiedFolds(y, k, rng)
	if err != nil {
		return 0, errors.Wrap(err, "models: nested cross-validation split")
	}

	var sum float64
	for _, fold := range folds {
		reg := newReg()
		if err := reg.Fit(rowsOf(X, fold.Train), yColumn(valuesAt(y, fold.Train))); err != nil {
			return 0, err
		}
		pred, err := reg.Predict(rowsOf(X, fold.Test))
		if err != nil {
			return 0, err
		}
		mse, err := metrics.MSE(valuesAt(y, fold.Test), flatten(pred))
		if err != nil {
			return 0, err
		}
		sum += mse
	}
	return sum / float64(len(folds)), nil
}

// yColumn lifts a label slice into the n×1 matrix estimators fit against.
func yColumn(y []float64) *mat.Dense {
	out := mat.NewDense(len(y), 1, nil)
	for i, v := range y {
		out.Set(i, 0, v)
	}
	return out
}

// flatten extracts the single column of an n×1 prediction matrix.
func flatten(pred mat.Matrix) []float64 {
	r, _ := pred.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = pred.At(i, 0)
	}
	return out
}

func rowsOf(X *mat.Dense, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, ri := range idx {
		out.SetRow(i, X.RawRowView(ri))
	}
	return out
}

func valuesAt(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, ri := range idx {
		out[i] = y[ri]
	}
	return out
}

// Package ensemble implements gradient boosted regression trees.
package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
	"github.com/oenolab/winebench/tree"
)

// GradientBoostingRegressor fits shallow regression trees to the residuals
// of the running prediction under squared error loss. Each stage is damped
// by Shrinkage before it joins the additive model.
type GradientBoostingRegressor struct {
	model.BaseEstimator

	NEstimators int
	Shrinkage   float64
	MaxDepth    int

	initValue float64
	stages    []*tree.DecisionTreeRegressor
	nFeatures int
}

// NewGradientBoostingRegressor creates an unfitted booster. Typical
// settings for tabular data are 100 rounds, shrinkage 0.1, depth 3.
func NewGradientBoostingRegressor(nEstimators int, shrinkage float64, maxDepth int) *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		NEstimators: nEstimators,
		Shrinkage:   shrinkage,
		MaxDepth:    maxDepth,
	}
}

// Fit builds the stage trees on X (n×p) and the n×1 target matrix y.
func (g *GradientBoostingRegressor) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("GradientBoostingRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("GradientBoostingRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("GradientBoostingRegressor.Fit", 1, cy, 1)
	}
	if g.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be positive", g.NEstimators)
	}
	if g.Shrinkage <= 0 || g.Shrinkage > 1 {
		return errors.NewValidationError("shrinkage", "must be in (0, 1]", g.Shrinkage)
	}

	var sum float64
	for i := 0; i < r; i++ {
		sum += y.At(i, 0)
	}
	g.initValue = sum / float64(r)

	// current holds the running prediction; residual the negative
	// gradient of squared error, which is just y minus current.
	current := make([]float64, r)
	for i := range current {
		current[i] = g.initValue
	}
	residual := mat.NewDense(r, 1, nil)

	g.stages = make([]*tree.DecisionTreeRegressor, 0, g.NEstimators)
	for m := 0; m < g.NEstimators; m++ {
		for i := 0; i < r; i++ {
			residual.Set(i, 0, y.At(i, 0)-current[i])
		}

		stage := tree.NewDecisionTreeRegressor(
			tree.WithMaxDepth(g.MaxDepth),
			tree.WithMinSamplesLeaf(1),
		)
		if err := stage.Fit(X, residual); err != nil {
			return errors.Wrapf(err, "GradientBoostingRegressor.Fit: stage %d", m)
		}
		pred, err := stage.Predict(X)
		if err != nil {
			return errors.Wrapf(err, "GradientBoostingRegressor.Fit: stage %d", m)
		}
		for i := 0; i < r; i++ {
			current[i] += g.Shrinkage * pred.At(i, 0)
		}
		g.stages = append(g.stages, stage)
	}

	g.nFeatures = c
	g.SetFitted()
	return nil
}

// Predict returns an n×1 matrix of additive-model predictions.
func (g *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !g.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}
	r, c := X.Dims()
	if c != g.nFeatures {
		return nil, errors.NewDimensionError("GradientBoostingRegressor.Predict", g.nFeatures, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, g.initValue)
	}
	for _, stage := range g.stages {
		pred, err := stage.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < r; i++ {
			out.Set(i, 0, out.At(i, 0)+g.Shrinkage*pred.At(i, 0))
		}
	}
	return out, nil
}

// NStages returns the number of fitted boosting stages.
func (g *GradientBoostingRegressor) NStages() int {
	return len(g.stages)
}

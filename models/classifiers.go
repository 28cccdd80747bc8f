package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/bayes"
	"github.com/oenolab/winebench/config"
	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/discriminant"
	"github.com/oenolab/winebench/ensemble"
	"github.com/oenolab/winebench/tree"
)

// classify adapts any in-repo classifier to the evaluator contract.
func classify(newCls func() model.Classifier) crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		cls := newCls()
		if err := cls.Fit(X, yColumn(y)); err != nil {
			return nil, err
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			pred, err := cls.Predict(Xt)
			if err != nil {
				return nil, err
			}
			return flatten(pred), nil
		}, nil
	}
}

// Discriminant wraps linear discriminant analysis.
func Discriminant() crossval.FitFunc {
	return classify(func() model.Classifier { return discriminant.NewLDA() })
}

// NaiveBayes wraps Gaussian naive Bayes.
func NaiveBayes() crossval.FitFunc {
	return classify(func() model.Classifier { return bayes.NewGaussianNB() })
}

// CART wraps the gini classification tree grown to purity.
func CART() crossval.FitFunc {
	return classify(func() model.Classifier { return tree.NewDecisionTreeClassifier() })
}

// Boosting wraps gradient boosted regression trees on the integer labels;
// the continuous additive prediction is rounded by the evaluator.
func Boosting(cfg config.BoostingConfig) crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		g := ensemble.NewGradientBoostingRegressor(cfg.Rounds, cfg.Shrinkage, cfg.MaxDepth)
		if err := g.Fit(X, yColumn(y)); err != nil {
			return nil, err
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			pred, err := g.Predict(Xt)
			if err != nil {
				return nil, err
			}
			return flatten(pred), nil
		}, nil
	}
}

package models

import (
	"github.com/sjwhitworth/golearn/base"
	glearn "github.com/sjwhitworth/golearn/ensemble"
	"github.com/sjwhitworth/golearn/filters"
	"github.com/sjwhitworth/golearn/knn"
	"github.com/sjwhitworth/golearn/trees"
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/dataset"
	"github.com/oenolab/winebench/pkg/errors"
	"github.com/oenolab/winebench/preprocessing"
)

// chiMergeSignificance is the significance level of the ChiMerge
// discretization applied before the golearn tree learners.
const chiMergeSignificance = 0.999

// id3PruneFraction is the share of training data ID3 holds out for
// reduced-error pruning.
const id3PruneFraction = 0.6

// KNN wraps golearn's k-nearest-neighbour classifier on standardized
// features. names and classes come from the full dataset so that train
// and test grids share one attribute layout.
func KNN(names []string, classes []float64, k int) crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		scaler := preprocessing.NewStandardScaler()
		Xs, err := scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}
		train, err := instancesFrom(Xs, y, names, classes)
		if err != nil {
			return nil, err
		}

		cls := knn.NewKnnClassifier("euclidean", "linear", k)
		if err := cls.Fit(train); err != nil {
			return nil, errors.Wrap(err, "knn: fitting")
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			Xts, err := scaler.Transform(Xt)
			if err != nil {
				return nil, err
			}
			test, err := placeholderInstances(Xts, names, classes)
			if err != nil {
				return nil, err
			}
			preds, err := cls.Predict(test)
			if err != nil {
				return nil, errors.Wrap(err, "knn: predicting")
			}
			return dataset.LabelsFromInstances(preds)
		}, nil
	}
}

// ID3Tree wraps golearn's ID3 decision tree. The continuous features are
// discretized with a ChiMerge filter trained on the training partition and
// reused for the test partition.
func ID3Tree(names []string, classes []float64) crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		train, err := instancesFrom(mat.DenseCopyOf(X), y, names, classes)
		if err != nil {
			return nil, err
		}
		filt, err := trainChiMerge(train)
		if err != nil {
			return nil, err
		}

		id3 := trees.NewID3DecisionTree(id3PruneFraction)
		if err := id3.Fit(base.NewLazilyFilteredInstances(train, filt)); err != nil {
			return nil, errors.Wrap(err, "id3: fitting")
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			test, err := placeholderInstances(mat.DenseCopyOf(Xt), names, classes)
			if err != nil {
				return nil, err
			}
			preds, err := id3.Predict(base.NewLazilyFilteredInstances(test, filt))
			if err != nil {
				return nil, errors.Wrap(err, "id3: predicting")
			}
			return dataset.LabelsFromInstances(preds)
		}, nil
	}
}

// Forest wraps golearn's random forest with size trees and width features
// considered per tree. Passing width equal to the feature count turns the
// forest into bagging.
func Forest(size, width int, names []string, classes []float64) crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		if size < 1 {
			return nil, errors.NewValidationError("forest.trees", "must be positive", size)
		}
		train, err := instancesFrom(mat.DenseCopyOf(X), y, names, classes)
		if err != nil {
			return nil, err
		}
		filt, err := trainChiMerge(train)
		if err != nil {
			return nil, err
		}

		forest := glearn.NewRandomForest(size, width)
		if err := forest.Fit(base.NewLazilyFilteredInstances(train, filt)); err != nil {
			return nil, errors.Wrap(err, "forest: fitting")
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			test, err := placeholderInstances(mat.DenseCopyOf(Xt), names, classes)
			if err != nil {
				return nil, err
			}
			preds, err := forest.Predict(base.NewLazilyFilteredInstances(test, filt))
			if err != nil {
				return nil, errors.Wrap(err, "forest: predicting")
			}
			return dataset.LabelsFromInstances(preds)
		}, nil
	}
}

func trainChiMerge(train base.FixedDataGrid) (*filters.ChiMergeFilter, error) {
	filt := filters.NewChiMergeFilter(train, chiMergeSignificance)
	for _, attr := range base.NonClassFloatAttributes(train) {
		filt.AddAttribute(attr)
	}
	if err := filt.Train(); err != nil {
		return nil, errors.Wrap(err, "models: training ChiMerge filter")
	}
	return filt, nil
}

func instancesFrom(X *mat.Dense, y []float64, names []string, classes []float64) (*base.DenseInstances, error) {
	d := &dataset.Dataset{Name: "fold", FeatureNames: names, X: X, Y: y}
	return d.ToInstances(classes)
}

// placeholderInstances builds a prediction grid: the class column is
// required by the grid layout but its values are never read, so every row
// carries the first vocabulary label.
func placeholderInstances(X *mat.Dense, names []string, classes []float64) (*base.DenseInstances, error) {
	r, _ := X.Dims()
	y := make([]float64, r)
	for i := range y {
		y[i] = classes[0]
	}
	return instancesFrom(X, y, names, classes)
}

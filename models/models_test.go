package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/config"
	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/dataset"
)

// linearDataset builds y = 2 + 3*x with one informative feature.
func linearDataset(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 1, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		X.Set(i, 0, x)
		y[i] = 2 + 3*x
	}
	return X, y
}

// labelFeatureDataset carries the label in the first feature and two
// uninformative columns after it.
func labelFeatureDataset() *dataset.Dataset {
	labels := []float64{5, 6, 5, 6, 5, 6, 5, 6, 5, 6, 5, 6, 5, 6, 5, 6, 5, 6, 5, 6}
	n := len(labels)
	x := mat.NewDense(n, 3, nil)
	for i, v := range labels {
		x.Set(i, 0, v)
		x.Set(i, 1, float64(i%4))
		x.Set(i, 2, float64((i*7)%5))
	}
	return &dataset.Dataset{
		Name:         "synthetic",
		FeatureNames: []string{"signal", "noise_a", "noise_b"},
		X:            x,
		Y:            labels,
	}
}

func TestBuild_RegistryContents(t *testing.T) {
	ds := labelFeatureDataset()
	registry := Build(ds, config.Default().Models)

	names := make([]string, len(registry))
	for i, m := range registry {
		names[i] = m.Name
		require.NotNil(t, m.Fit, "model %s has no fit function", m.Name)
	}
	assert.Equal(t, []string{
		"ols", "ridge", "lasso", "pcr",
		"lda", "naive-bayes", "cart", "id3", "knn",
		"forest", "bagging", "boosting",
	}, names)

	policies := map[string]crossval.LabelPolicy{}
	for _, m := range registry {
		policies[m.Name] = m.Policy
	}
	assert.Equal(t, crossval.ContinuousRounded, policies["ols"])
	assert.Equal(t, crossval.ContinuousRounded, policies["boosting"])
	assert.Equal(t, crossval.DiscreteExact, policies["knn"])
	assert.Equal(t, crossval.DiscreteExact, policies["forest"])
}

func TestFilter(t *testing.T) {
	ds := labelFeatureDataset()
	registry := Build(ds, config.Default().Models)

	kept, err := Filter(registry, []string{"knn", "ols", BestSubsetName})
	require.NoError(t, err)
	require.Len(t, kept, 2)
	// Registry order is preserved regardless of the enabled order.
	assert.Equal(t, "ols", kept[0].Name)
	assert.Equal(t, "knn", kept[1].Name)

	_, err = Filter(registry, []string{"perceptron"})
	assert.Error(t, err)

	all, err := Filter(registry, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(registry))
}

func TestOLS_FitPredict(t *testing.T) {
	X, y := linearDataset(10)

	predict, err := OLS()(X, y)
	require.NoError(t, err)

	got, err := predict(mat.NewDense(2, 1, []float64{20, 30}))
	require.NoError(t, err)
	assert.InDelta(t, 62.0, got[0], 1e-8)
	assert.InDelta(t, 92.0, got[1], 1e-8)
}

func TestRidgeCV_CleanLinearData(t *testing.T) {
	X, y := linearDataset(20)

	predict, err := RidgeCV(DefaultPenaltyGrid, 5)(X, y)
	require.NoError(t, err)

	got, err := predict(X)
	require.NoError(t, err)
	// Noise-free data selects a weak penalty, keeping the fit tight.
	for i := range y {
		assert.InDelta(t, y[i], got[i], 0.15)
	}
}

func TestLassoCV_CleanLinearData(t *testing.T) {
	X, y := linearDataset(20)

	predict, err := LassoCV(DefaultPenaltyGrid, 5)(X, y)
	require.NoError(t, err)

	got, err := predict(X)
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], got[i], 0.15)
	}
}

func TestPCRegression_SingleComponent(t *testing.T) {
	X, y := linearDataset(20)

	predict, err := PCRegression(5)(X, y)
	require.NoError(t, err)

	got, err := predict(X)
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], got[i], 1e-6)
	}
}

func TestCART_ThroughEvaluator(t *testing.T) {
	ds := labelFeatureDataset()

	res, err := crossval.Evaluate(ds, crossval.Model{
		Name:   "cart",
		Policy: crossval.DiscreteExact,
		Fit:    CART(),
	}, crossval.Options{Seeds: []int64{1}, K: 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.MeanAccuracy)
	assert.Equal(t, 0.0, res.MeanMAE)
}

func TestClassifierAdapters_ThroughEvaluator(t *testing.T) {
	ds := labelFeatureDataset()
	opts := crossval.Options{Seeds: []int64{1}, K: 2}

	entries := []crossval.Model{
		{Name: "lda", Policy: crossval.DiscreteExact, Fit: Discriminant()},
		{Name: "naive-bayes", Policy: crossval.DiscreteExact, Fit: NaiveBayes()},
	}
	for _, m := range entries {
		t.Run(m.Name, func(t *testing.T) {
			res, err := crossval.Evaluate(ds, m, opts)
			require.NoError(t, err)
			// The first feature carries the label outright.
			assert.Equal(t, 1.0, res.MeanAccuracy)
			assert.Equal(t, 0.0, res.MeanMAE)
		})
	}
}

func TestKNN_PredictsTrainingPoints(t *testing.T) {
	ds := labelFeatureDataset()

	predict, err := KNN(ds.FeatureNames, ds.Classes(), 1)(ds.X, ds.Y)
	require.NoError(t, err)

	got, err := predict(ds.X)
	require.NoError(t, err)
	assert.Equal(t, ds.Y, got)
}

func TestEvaluateBestSubset(t *testing.T) {
	ds := labelFeatureDataset()
	opts := crossval.Options{Seeds: []int64{1}, K: 2}

	result, err := EvaluateBestSubset(ds, opts)
	require.NoError(t, err)

	// Exactly one evaluation per candidate size 1..p.
	require.Len(t, result.BySize, 3)
	for size, res := range result.BySize {
		require.NotNil(t, res, "size %d was not evaluated", size+1)
	}

	// The label-carrying feature alone is perfect; larger subsets tie at
	// the same accuracy, so the smaller size wins.
	assert.Equal(t, 1, result.Size)
	assert.Equal(t, []int{0}, result.Features)
	assert.Equal(t, []string{"signal"}, result.Names)
	assert.Equal(t, BestSubsetName, result.Result.Model)
	assert.Equal(t, 1.0, result.Result.MeanAccuracy)
}

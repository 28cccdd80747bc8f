package crossval

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/dataset"
	"github.com/oenolab/winebench/pkg/errors"
)

// labelDataset builds a dataset whose single feature column carries the
// label itself, so an echo model can predict perfectly.
func labelDataset(labels []float64) *dataset.Dataset {
	x := mat.NewDense(len(labels), 1, nil)
	for i, v := range labels {
		x.Set(i, 0, v)
	}
	y := make([]float64, len(labels))
	copy(y, labels)
	return &dataset.Dataset{
		Name:         "synthetic",
		FeatureNames: []string{"label_copy"},
		X:            x,
		Y:            y,
	}
}

// echoModel predicts the value stored in the first feature column.
func echoModel() Model {
	return Model{
		Name:   "echo",
		Policy: DiscreteExact,
		Fit: func(X mat.Matrix, y []float64) (PredictFunc, error) {
			return func(Xt mat.Matrix) ([]float64, error) {
				r, _ := Xt.Dims()
				out := make([]float64, r)
				for i := 0; i < r; i++ {
					out[i] = Xt.At(i, 0)
				}
				return out, nil
			}, nil
		},
	}
}

// constantModel always predicts c.
func constantModel(c float64) Model {
	return Model{
		Name:   "constant",
		Policy: DiscreteExact,
		Fit: func(X mat.Matrix, y []float64) (PredictFunc, error) {
			return func(Xt mat.Matrix) ([]float64, error) {
				r, _ := Xt.Dims()
				out := make([]float64, r)
				for i := range out {
					out[i] = c
				}
				return out, nil
			}, nil
		},
	}
}

func TestStratifiedFolds_CoversEveryRecordOnce(t *testing.T) {
	labels := make([]float64, 20)
	for i := range labels {
		labels[i] = float64(5 + i%4)
	}

	rng := rand.New(rand.NewPCG(1, 1))
	folds, err := StratifiedFolds(labels, 4, rng)
	require.NoError(t, err)
	require.Len(t, folds, 4)

	seen := make(map[int]int)
	for _, fold := range folds {
		require.NotEmpty(t, fold.Test)
		assert.Len(t, fold.Train, len(labels)-len(fold.Test))
		for _, idx := range fold.Test {
			seen[idx]++
		}
		// Train and test are disjoint.
		inTest := map[int]bool{}
		for _, idx := range fold.Test {
			inTest[idx] = true
		}
		for _, idx := range fold.Train {
			assert.False(t, inTest[idx], "index %d in both partitions", idx)
		}
	}
	for i := range labels {
		assert.Equal(t, 1, seen[i], "index %d not covered exactly once", i)
	}
}

func TestStratifiedFolds_Deterministic(t *testing.T) {
	labels := []float64{5, 6, 7, 5, 6, 7, 5, 6, 7, 8, 8, 8}

	a, err := StratifiedFolds(labels, 3, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)
	b, err := StratifiedFolds(labels, 3, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStratifiedFolds_InvalidK(t *testing.T) {
	labels := []float64{5, 6, 5, 6}

	_, err := StratifiedFolds(labels, 1, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)

	_, err = StratifiedFolds(labels, 5, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)

	_, err = StratifiedFolds(nil, 2, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)
}

func TestEvaluate_PerfectPredictor(t *testing.T) {
	ds := labelDataset([]float64{5, 5, 5, 6, 6, 6, 7, 7, 7, 8, 8, 8})

	res, err := Evaluate(ds, echoModel(), Options{Seeds: []int64{1, 10, 100}, K: 3})
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.MeanAccuracy)
	assert.Equal(t, 0.0, res.MeanMAE)
	assert.InDelta(t, 1.0, res.MeanAUC, 1e-12)
	assert.Equal(t, 9, res.Folds)
	assert.Equal(t, 0, res.SkippedAUCFolds)
}

func TestEvaluate_ConstantPredictorWorkedExample(t *testing.T) {
	// Labels [5,5,5,6,6,6,7,7,7,8] under 2 folds split into {5,5,6,7,7}
	// and {5,6,6,7,8} whatever the shuffle, so a constant 6 scores 0.3
	// accuracy and 0.8 MAE overall.
	ds := labelDataset([]float64{5, 5, 5, 6, 6, 6, 7, 7, 7, 8})

	res, err := Evaluate(ds, constantModel(6), Options{Seeds: []int64{1}, K: 2})
	require.NoError(t, err)

	assert.InDelta(t, 0.3, res.MeanAccuracy, 1e-12)
	assert.InDelta(t, 0.8, res.MeanMAE, 1e-12)
	assert.Equal(t, 2, res.Folds)
}

func TestEvaluate_RecordOrderInvariantMetrics(t *testing.T) {
	// Stratification deals each class across folds by count, so every
	// fold sees the same label multiset whatever the record order. A
	// constant predictor's accuracy and MAE depend only on that multiset
	// and must not change when the records are permuted.
	labels := []float64{5, 5, 5, 6, 6, 6, 7, 7, 7, 8}
	permuted := []float64{8, 7, 5, 6, 7, 5, 6, 5, 7, 6}

	opts := Options{Seeds: []int64{1, 10}, K: 2}
	a, err := Evaluate(labelDataset(labels), constantModel(6), opts)
	require.NoError(t, err)
	b, err := Evaluate(labelDataset(permuted), constantModel(6), opts)
	require.NoError(t, err)

	assert.Equal(t, a.MeanAccuracy, b.MeanAccuracy)
	assert.Equal(t, a.MeanMAE, b.MeanMAE)
	assert.Equal(t, a.Folds, b.Folds)
}

func TestEvaluate_Deterministic(t *testing.T) {
	ds := labelDataset([]float64{5, 5, 5, 6, 6, 6, 7, 7, 7, 8, 8, 8})
	opts := Options{Seeds: []int64{1, 10, 100, 1000, 10000}, K: 3}

	a, err := Evaluate(ds, constantModel(6), opts)
	require.NoError(t, err)
	b, err := Evaluate(ds, constantModel(6), opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEvaluate_DegenerateFoldIsHardErrorByDefault(t *testing.T) {
	// Six 5s over three folds leave two folds single-class; the lone 6
	// lands in the first fold.
	ds := labelDataset([]float64{5, 5, 5, 5, 5, 5, 6})

	_, err := Evaluate(ds, constantModel(5), Options{Seeds: []int64{1}, K: 3})
	require.Error(t, err)

	var degenerate *errors.DegenerateFoldError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, int64(1), degenerate.Seed)
	assert.Equal(t, []float64{5}, degenerate.Classes)
}

func TestEvaluate_SkipDegenerateAUC(t *testing.T) {
	ds := labelDataset([]float64{5, 5, 5, 5, 5, 5, 6})

	res, err := Evaluate(ds, constantModel(5), Options{
		Seeds:             []int64{1},
		K:                 3,
		SkipDegenerateAUC: true,
	})
	require.NoError(t, err)

	// Accuracy and MAE still cover all three folds.
	assert.Equal(t, 3, res.Folds)
	assert.Equal(t, 2, res.SkippedAUCFolds)
	assert.False(t, math.IsNaN(res.MeanAUC))
}

func TestEvaluate_SingleClassDataset(t *testing.T) {
	ds := labelDataset([]float64{5, 5, 5, 5})

	_, err := Evaluate(ds, constantModel(5), Options{Seeds: []int64{1}, K: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSingleClass))
}

func TestEvaluate_RoundingPolicy(t *testing.T) {
	ds := labelDataset([]float64{5, 5, 6, 6, 7, 7})

	// Offsets below 0.5 round back to the true label, so accuracy stays
	// perfect while MAE sees the raw offset.
	offset := Model{
		Name:   "offset",
		Policy: ContinuousRounded,
		Fit: func(X mat.Matrix, y []float64) (PredictFunc, error) {
			return func(Xt mat.Matrix) ([]float64, error) {
				r, _ := Xt.Dims()
				out := make([]float64, r)
				for i := 0; i < r; i++ {
					out[i] = Xt.At(i, 0) + 0.3
				}
				return out, nil
			}, nil
		},
	}

	res, err := Evaluate(ds, offset, Options{Seeds: []int64{1}, K: 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.MeanAccuracy)
	assert.InDelta(t, 0.3, res.MeanMAE, 1e-12)
}

func TestEvaluate_PanickingModelSurfacesError(t *testing.T) {
	ds := labelDataset([]float64{5, 5, 6, 6})

	boom := Model{
		Name:   "boom",
		Policy: DiscreteExact,
		Fit: func(X mat.Matrix, y []float64) (PredictFunc, error) {
			panic("fit exploded")
		},
	}

	_, err := Evaluate(ds, boom, Options{Seeds: []int64{1}, K: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEvaluate_PredictionLengthMismatch(t *testing.T) {
	ds := labelDataset([]float64{5, 5, 6, 6})

	short := Model{
		Name:   "short",
		Policy: DiscreteExact,
		Fit: func(X mat.Matrix, y []float64) (PredictFunc, error) {
			return func(Xt mat.Matrix) ([]float64, error) {
				return []float64{5}, nil
			}, nil
		},
	}

	_, err := Evaluate(ds, short, Options{Seeds: []int64{1}, K: 2})
	require.Error(t, err)
}

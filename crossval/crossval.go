// Package crossval implements the repeated cross-validation harness: for
// each seed a stratified k-fold partition is drawn, every model is fitted
// on k-1 folds and scored on the held-out fold, and the three benchmark
// metrics are averaged over all (seed, fold) pairs.
package crossval

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/dataset"
	"github.com/oenolab/winebench/metrics"
	"github.com/oenolab/winebench/pkg/errors"
	"github.com/oenolab/winebench/pkg/log"
)

// LabelPolicy decides how raw model outputs are compared to the integer
// quality labels. It is declared per model instead of inferred at runtime.
type LabelPolicy int

const (
	// ContinuousRounded rounds regression-style outputs to the nearest
	// integer label before the accuracy and AUC comparisons. MAE always
	// uses the unrounded outputs.
	ContinuousRounded LabelPolicy = iota
	// DiscreteExact compares inherently discrete classifier outputs
	// without rounding.
	DiscreteExact
)

// PredictFunc maps a test feature matrix to one predicted label value per
// row. It closes over the fitted model state.
type PredictFunc func(X mat.Matrix) ([]float64, error)

// FitFunc maps a training partition to a prediction closure. The fitted
// model object stays opaque to the evaluator.
type FitFunc func(X mat.Matrix, y []float64) (PredictFunc, error)

// Model is one benchmark entry: a name, a label policy, and the
// fit/predict closure pair every model variant satisfies.
type Model struct {
	Name   string
	Policy LabelPolicy
	Fit    FitFunc
}

// Options parameterizes an evaluation run.
type Options struct {
	// Seeds determine the repetition count and the reproducibility of
	// the fold assignment. Evaluated in order.
	Seeds []int64
	// K is the fold count per seed.
	K int
	// SkipDegenerateAUC excludes single-class test folds from the AUC
	// mean (with a warning) instead of aborting the evaluation. The
	// fold's accuracy and MAE still count either way.
	SkipDegenerateAUC bool
	// Logger receives per-fold diagnostics; nil uses the default logger.
	Logger log.Logger
}

// Result holds the averaged metrics of one model evaluation.
type Result struct {
	Model string

	MeanAccuracy float64
	MeanAUC      float64
	MeanMAE      float64

	// Folds is the number of (seed, fold) evaluations contributing to
	// the accuracy and MAE means.
	Folds int
	// SkippedAUCFolds counts degenerate folds excluded from the AUC
	// mean under SkipDegenerateAUC.
	SkippedAUCFolds int
}

// Fold is one train/test index partition.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedFolds partitions indices 0..len(labels)-1 into k label-aware
// folds: each class's indices are shuffled with rng and dealt across the
// folds so every fold gets a representative label distribution where
// feasible. Classes are visited in ascending order, so the partition is a
// pure function of (labels, k, rng state).
func StratifiedFolds(labels []float64, k int, rng *rand.Rand) ([]Fold, error) {
	n := len(labels)
	if n == 0 {
		return nil, errors.NewModelError("crossval.StratifiedFolds", "no records", errors.ErrEmptyData)
	}
	if k < 2 {
		return nil, errors.NewValidationError("k", "must be at least 2", k)
	}
	if k > n {
		return nil, errors.NewValidationError("k", "exceeds record count", k)
	}

	byClass := map[float64][]int{}
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]float64, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Float64s(classes)

	folds := make([]Fold, k)
	// Rotate the starting fold between classes so remainders do not pile
	// up on fold 0.
	offset := 0
	for _, label := range classes {
		indices := byClass[label]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for i, idx := range indices {
			f := (offset + i) % k
			folds[f].Test = append(folds[f].Test, idx)
		}
		offset = (offset + len(indices)) % k
	}

	for f := range folds {
		if len(folds[f].Test) == 0 {
			return nil, errors.NewValueError("crossval.StratifiedFolds", "produced an empty fold")
		}
		sort.Ints(folds[f].Test)
		inTest := make(map[int]bool, len(folds[f].Test))
		for _, idx := range folds[f].Test {
			inTest[idx] = true
		}
		folds[f].Train = make([]int, 0, n-len(folds[f].Test))
		for i := 0; i < n; i++ {
			if !inTest[i] {
				folds[f].Train = append(folds[f].Train, i)
			}
		}
	}
	return folds, nil
}

// Evaluate runs repeated stratified k-fold cross-validation of one model
// on one dataset and returns the mean accuracy, multiclass AUC, and MAE
// across all len(Seeds)×K fold evaluations.
func Evaluate(ds *dataset.Dataset, m Model, opts Options) (*Result, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Seeds) == 0 {
		return nil, errors.NewValidationError("seeds", "must not be empty", opts.Seeds)
	}
	if m.Fit == nil {
		return nil, errors.NewValidationError("model", "nil fit function", m.Name)
	}
	if classes := ds.Classes(); len(classes) < 2 {
		return nil, errors.Wrapf(errors.ErrSingleClass, "dataset %s", ds.Name)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(log.ModelNameKey, m.Name, log.DatasetKey, ds.Name)

	var accs, aucs, maes []float64
	skipped := 0

	for _, seed := range opts.Seeds {
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		folds, err := StratifiedFolds(ds.Y, opts.K, rng)
		if err != nil {
			return nil, err
		}

		for f, fold := range folds {
			train := ds.Subset(fold.Train)
			test := ds.Subset(fold.Test)

			preds, err := fitAndPredict(m, train, test)
			if err != nil {
				return nil, errors.Wrapf(err, "model %s seed %d fold %d", m.Name, seed, f)
			}
			if len(preds) != len(test.Y) {
				return nil, errors.NewDimensionError(m.Name+".predict", len(test.Y), len(preds), 0)
			}

			compared := preds
			if m.Policy == ContinuousRounded {
				compared = metrics.Round(preds)
			}

			acc, err := metrics.Accuracy(test.Y, compared)
			if err != nil {
				return nil, err
			}
			mae, err := metrics.MAE(test.Y, preds)
			if err != nil {
				return nil, err
			}

			auc, err := metrics.MulticlassAUC(test.Y, compared)
			switch {
			case err == nil:
				aucs = append(aucs, auc)
			case errors.Is(err, metrics.ErrTooFewClasses):
				degenerate := errors.NewDegenerateFoldError(seed, f, distinctLabels(test.Y))
				if !opts.SkipDegenerateAUC {
					return nil, degenerate
				}
				skipped++
				errors.Warn(errors.NewUndefinedMetricWarning("auc", degenerate.Error(), 0))
				logger.Warn("skipping degenerate fold for AUC",
					log.SeedKey, seed, log.FoldKey, f)
			default:
				return nil, err
			}

			accs = append(accs, acc)
			maes = append(maes, mae)

			logger.Debug("fold evaluated",
				log.SeedKey, seed,
				log.FoldKey, f,
				log.SamplesKey, len(test.Y),
				log.AccuracyKey, acc,
				log.MAEKey, mae)
		}
	}

	if len(aucs) == 0 {
		// Every fold was degenerate; there is no AUC to report.
		return nil, errors.NewValueError(m.Name, "all folds were degenerate, AUC undefined")
	}

	return &Result{
		Model:           m.Name,
		MeanAccuracy:    mean(accs),
		MeanAUC:         mean(aucs),
		MeanMAE:         mean(maes),
		Folds:           len(accs),
		SkippedAUCFolds: skipped,
	}, nil
}

// fitAndPredict runs the model callbacks with panic recovery, so a
// misbehaving model surfaces as an error for its own evaluation only.
func fitAndPredict(m Model, train, test *dataset.Dataset) (preds []float64, err error) {
	defer errors.Recover(&err, m.Name)

	predict, err := m.Fit(train.X, train.Y)
	if err != nil {
		return nil, err
	}
	return predict(test.X)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func distinctLabels(labels []float64) []float64 {
	seen := map[float64]struct{}{}
	for _, v := range labels {
		seen[v] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

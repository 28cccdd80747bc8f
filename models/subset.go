package models

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/dataset"
	"github.com/oenolab/winebench/linear"
	"github.com/oenolab/winebench/pkg/errors"
	"github.com/oenolab/winebench/pkg/log"
)

// SubsetResult is the outcome of best-subset selection: the winning
// feature set, its cross-validated metrics, and the per-size evaluations
// that were compared.
type SubsetResult struct {
	// Size is the winning subset size.
	Size int
	// Features are the winning column indices into the dataset.
	Features []int
	// Names are the corresponding feature names.
	Names []string
	// Result holds the winning size's evaluation, renamed to
	// BestSubsetName for reporting.
	Result *crossval.Result
	// BySize holds one evaluation per candidate size, index size-1.
	BySize []*crossval.Result
}

// EvaluateBestSubset runs best-subset-selected regression: for every
// subset size 1..p it picks the feature combination with the lowest
// training residual sum of squares, cross-validates ordinary least
// squares on that combination, and keeps the size with the strictly
// highest mean accuracy. Ties go to the smaller size.
func EvaluateBestSubset(ds *dataset.Dataset, opts crossval.Options) (*SubsetResult, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	p := ds.NumFeatures()
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}

	out := &SubsetResult{BySize: make([]*crossval.Result, p)}
	for size := 1; size <= p; size++ {
		cols, err := bestColumnsOfSize(ds, size)
		if err != nil {
			return nil, err
		}
		sub, err := ds.SelectFeatures(cols)
		if err != nil {
			return nil, err
		}

		res, err := crossval.Evaluate(sub, crossval.Model{
			Name:   fmt.Sprintf("subset-%d", size),
			Policy: crossval.ContinuousRounded,
			Fit:    OLS(),
		}, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "best-subset: size %d", size)
		}
		out.BySize[size-1] = res

		logger.Debug("subset size evaluated",
			log.SubsetSizeKey, size,
			log.AccuracyKey, res.MeanAccuracy,
			log.MAEKey, res.MeanMAE)

		// Strictly higher accuracy wins; equal accuracy keeps the
		// smaller, earlier size.
		if out.Result == nil || res.MeanAccuracy > out.Result.MeanAccuracy {
			out.Size = size
			out.Features = cols
			out.Names = sub.FeatureNames
			out.Result = res
		}
	}

	out.Result.Model = BestSubsetName
	return out, nil
}

// bestColumnsOfSize returns the feature combination of the given size
// with the lowest ordinary least-squares residual sum of squares on the
// full dataset.
func bestColumnsOfSize(ds *dataset.Dataset, size int) ([]int, error) {
	p := ds.NumFeatures()
	yMat := ds.YMatrix()

	var best []int
	bestRSS := 0.0
	for _, cols := range combin.Combinations(p, size) {
		sub, err := ds.SelectFeatures(cols)
		if err != nil {
			return nil, err
		}
		reg := linear.NewLinearRegression()
		if err := reg.Fit(sub.X, yMat); err != nil {
			return nil, errors.Wrapf(err, "best-subset: fitting size %d", size)
		}
		rss, err := reg.RSS(sub.X, yMat)
		if err != nil {
			return nil, err
		}
		if best == nil || rss < bestRSS {
			best = append(best[:0], cols...)
			bestRSS = rss
		}
	}
	return best, nil
}

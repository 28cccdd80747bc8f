// Package tree implements CART decision trees: a classifier used directly
// as a benchmark entry and a regressor used as the weak learner of the
// gradient boosting ensemble.
package tree

// Option configures a decision tree before fitting.
type Option func(*treeParams)

type treeParams struct {
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
}

func defaultParams(criterion string) treeParams {
	return treeParams{
		criterion:       criterion,
		maxDepth:        -1, // unlimited
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     0, // all features
	}
}

// WithCriterion sets the split quality criterion: "gini" or "entropy" for
// classification, "mse" for regression.
func WithCriterion(criterion string) Option {
	return func(p *treeParams) { p.criterion = criterion }
}

// WithMaxDepth limits tree depth; negative means unlimited.
func WithMaxDepth(depth int) Option {
	return func(p *treeParams) { p.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum node size eligible for splitting.
func WithMinSamplesSplit(n int) Option {
	return func(p *treeParams) { p.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples each child must keep.
func WithMinSamplesLeaf(n int) Option {
	return func(p *treeParams) { p.minSamplesLeaf = n }
}

// WithMaxFeatures considers only a random subset of this many features at
// each split; 0 means all features.
func WithMaxFeatures(n int) Option {
	return func(p *treeParams) { p.maxFeatures = n }
}

package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
)

// DecisionTreeRegressor is a CART regressor with variance-reduction
// splits and mean-value leaves. The gradient boosting ensemble uses it as
// its weak learner.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int

	root      *node
	nFeatures int
}

// NewDecisionTreeRegressor creates a regressor with the given options.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	p := defaultParams("mse")
	for _, opt := range opts {
		opt(&p)
	}
	return &DecisionTreeRegressor{
		maxDepth:        p.maxDepth,
		minSamplesSplit: p.minSamplesSplit,
		minSamplesLeaf:  p.minSamplesLeaf,
	}
}

// Fit grows the tree on X (n×p) and the n×1 target matrix y.
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("DecisionTreeRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", 1, cy, 1)
	}

	targets := make([]float64, r)
	for i := 0; i < r; i++ {
		targets[i] = y.At(i, 0)
	}

	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	dt.nFeatures = c
	dt.root = dt.grow(X, targets, idx, 0)
	dt.SetFitted()
	return nil
}

func (dt *DecisionTreeRegressor) grow(X mat.Matrix, targets []float64, idx []int, depth int) *node {
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += targets[i]
		sumSq += targets[i] * targets[i]
	}
	n := float64(len(idx))
	mean := sum / n
	sse := sumSq - sum*sum/n

	stop := len(idx) < dt.minSamplesSplit || sse <= 1e-12
	if dt.maxDepth >= 0 && depth >= dt.maxDepth {
		stop = true
	}
	if stop {
		return &node{leaf: true, value: mean}
	}

	best := dt.bestSplit(X, targets, idx)
	if !best.ok {
		return &node{leaf: true, value: mean}
	}

	out := &node{feature: best.feature, threshold: best.threshold}
	out.left = dt.grow(X, targets, best.leftIdx, depth+1)
	out.right = dt.grow(X, targets, best.rightIdx, depth+1)
	return out
}

// bestSplit maximizes the reduction in summed squared error, swept in one
// pass per feature over sorted values with running sums.
func (dt *DecisionTreeRegressor) bestSplit(X mat.Matrix, targets []float64, idx []int) splitCandidate {
	var best splitCandidate
	n := len(idx)

	var totalSum float64
	for _, i := range idx {
		totalSum += targets[i]
	}

	for f := 0; f < dt.nFeatures; f++ {
		order := sortedOrder(X, idx, f)

		leftSum := 0.0
		for i := 0; i < n-1; i++ {
			leftSum += targets[order[i]]

			v, next := X.At(order[i], f), X.At(order[i+1], f)
			if v == next {
				continue
			}
			nLeft, nRight := i+1, n-i-1
			if nLeft < dt.minSamplesLeaf || nRight < dt.minSamplesLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			// Maximizing sum of per-child (sum²/count) minimizes SSE.
			score := leftSum*leftSum/float64(nLeft) + rightSum*rightSum/float64(nRight)
			if !best.ok || score > best.gain {
				best.ok = true
				best.gain = score
				best.feature = f
				best.threshold = (v + next) / 2
				best.leftIdx = append([]int(nil), order[:i+1]...)
				best.rightIdx = append([]int(nil), order[i+1:]...)
			}
		}
	}
	return best
}

// Predict returns an n×1 matrix of predicted values.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}
	r, c := X.Dims()
	if c != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeRegressor.Predict", dt.nFeatures, c, 1)
	}
	out := mat.NewDense(r, 1, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		out.Set(i, 0, dt.root.traverse(row).value)
	}
	return out, nil
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeRegressor) GetDepth() int {
	return dt.root.depth()
}

// GetNLeaves returns the leaf count of the fitted tree.
func (dt *DecisionTreeRegressor) GetNLeaves() int {
	return dt.root.leaves()
}

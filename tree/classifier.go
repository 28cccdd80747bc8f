package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/pkg/errors"
)

// DecisionTreeClassifier is a CART classifier with gini or entropy splits
// on continuous features.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int

	// Seed drives feature subsampling when maxFeatures is set.
	Seed uint64

	root        *node
	classes     []float64
	nClasses_   int
	nFeatures   int
	importances []float64
	rng         *rand.Rand
}

// NewDecisionTreeClassifier creates a classifier with the given options.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	p := defaultParams("gini")
	for _, opt := range opts {
		opt(&p)
	}
	return &DecisionTreeClassifier{
		criterion:       p.criterion,
		maxDepth:        p.maxDepth,
		minSamplesSplit: p.minSamplesSplit,
		minSamplesLeaf:  p.minSamplesLeaf,
		maxFeatures:     p.maxFeatures,
	}
}

// Fit grows the tree on X (n×p) and the n×1 label matrix y.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", 1, cy, 1)
	}
	if dt.criterion != "gini" && dt.criterion != "entropy" {
		return errors.NewValidationError("criterion", "must be gini or entropy", dt.criterion)
	}

	seen := map[float64]struct{}{}
	for i := 0; i < r; i++ {
		seen[y.At(i, 0)] = struct{}{}
	}
	dt.classes = make([]float64, 0, len(seen))
	for v := range seen {
		dt.classes = append(dt.classes, v)
	}
	sort.Float64s(dt.classes)
	dt.nClasses_ = len(dt.classes)
	dt.nFeatures = c
	dt.importances = make([]float64, c)
	dt.rng = rand.New(rand.NewPCG(dt.Seed, dt.Seed+1))

	classIdx := make([]int, r)
	for i := 0; i < r; i++ {
		classIdx[i] = sort.SearchFloat64s(dt.classes, y.At(i, 0))
	}

	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	dt.root = dt.grow(X, classIdx, idx, 0)

	// Normalize accumulated impurity decreases.
	var total float64
	for _, v := range dt.importances {
		total += v
	}
	if total > 0 {
		for j := range dt.importances {
			dt.importances[j] /= total
		}
	}

	dt.SetFitted()
	return nil
}

func (dt *DecisionTreeClassifier) grow(X mat.Matrix, classIdx, idx []int, depth int) *node {
	counts := make([]float64, dt.nClasses_)
	for _, i := range idx {
		counts[classIdx[i]]++
	}

	if dt.shouldStop(counts, idx, depth) {
		return dt.leaf(counts)
	}

	best := dt.bestSplit(X, classIdx, idx)
	if !best.ok {
		return dt.leaf(counts)
	}

	dt.importances[best.feature] += best.gain * float64(len(idx))

	n := &node{feature: best.feature, threshold: best.threshold}
	n.left = dt.grow(X, classIdx, best.leftIdx, depth+1)
	n.right = dt.grow(X, classIdx, best.rightIdx, depth+1)
	return n
}

func (dt *DecisionTreeClassifier) shouldStop(counts []float64, idx []int, depth int) bool {
	if dt.maxDepth >= 0 && depth >= dt.maxDepth {
		return true
	}
	if len(idx) < dt.minSamplesSplit {
		return true
	}
	nonZero := 0
	for _, v := range counts {
		if v > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func (dt *DecisionTreeClassifier) leaf(counts []float64) *node {
	best := 0
	for ci := 1; ci < len(counts); ci++ {
		if counts[ci] > counts[best] {
			best = ci
		}
	}
	return &node{leaf: true, value: float64(best), counts: counts}
}

func (dt *DecisionTreeClassifier) bestSplit(X mat.Matrix, classIdx, idx []int) splitCandidate {
	features := dt.candidateFeatures()
	parent := dt.impurity(classCounts(classIdx, idx, dt.nClasses_), float64(len(idx)))

	var best splitCandidate
	for _, f := range features {
		cand := dt.bestThreshold(X, classIdx, idx, f, parent)
		if cand.ok && (!best.ok || cand.gain > best.gain) {
			best = cand
		}
	}
	return best
}

func (dt *DecisionTreeClassifier) candidateFeatures() []int {
	all := make([]int, dt.nFeatures)
	for j := range all {
		all[j] = j
	}
	if dt.maxFeatures <= 0 || dt.maxFeatures >= dt.nFeatures {
		return all
	}
	dt.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	sub := all[:dt.maxFeatures]
	sort.Ints(sub)
	return sub
}

func (dt *DecisionTreeClassifier) bestThreshold(X mat.Matrix, classIdx, idx []int, feature int, parent float64) splitCandidate {
	order := sortedOrder(X, idx, feature)
	n := len(order)

	leftCounts := make([]float64, dt.nClasses_)
	rightCounts := classCounts(classIdx, order, dt.nClasses_)

	best := splitCandidate{feature: feature}
	for i := 0; i < n-1; i++ {
		ci := classIdx[order[i]]
		leftCounts[ci]++
		rightCounts[ci]--

		v, next := X.At(order[i], feature), X.At(order[i+1], feature)
		if v == next {
			continue
		}
		nLeft, nRight := i+1, n-i-1
		if nLeft < dt.minSamplesLeaf || nRight < dt.minSamplesLeaf {
			continue
		}

		// Zero-gain splits stay eligible: a split that keeps impurity
		// flat can still enable a separating split one level down
		// (XOR-style interactions).
		gain := parent -
			(float64(nLeft)*dt.impurity(leftCounts, float64(nLeft))+
				float64(nRight)*dt.impurity(rightCounts, float64(nRight)))/float64(n)
		if !best.ok || gain > best.gain {
			best.ok = true
			best.gain = gain
			best.threshold = (v + next) / 2
			best.leftIdx = append([]int(nil), order[:i+1]...)
			best.rightIdx = append([]int(nil), order[i+1:]...)
		}
	}
	return best
}

func (dt *DecisionTreeClassifier) impurity(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	switch dt.criterion {
	case "entropy":
		var h float64
		for _, v := range counts {
			if v > 0 {
				p := v / total
				h -= p * math.Log2(p)
			}
		}
		return h
	default: // gini
		var sumSq float64
		for _, v := range counts {
			p := v / total
			sumSq += p * p
		}
		return 1 - sumSq
	}
}

// Predict returns an n×1 matrix of predicted class values.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	r, c := X.Dims()
	if c != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", dt.nFeatures, c, 1)
	}
	out := mat.NewDense(r, 1, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		leaf := dt.root.traverse(row)
		out.Set(i, 0, dt.classes[int(leaf.value)])
	}
	return out, nil
}

// PredictProba returns an n×k matrix of leaf class frequencies.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	r, c := X.Dims()
	if c != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.nFeatures, c, 1)
	}
	out := mat.NewDense(r, dt.nClasses_, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		leaf := dt.root.traverse(row)
		var total float64
		for _, v := range leaf.counts {
			total += v
		}
		for ci := 0; ci < dt.nClasses_; ci++ {
			out.Set(i, ci, leaf.counts[ci]/total)
		}
	}
	return out, nil
}

// Classes returns the fitted class values in ascending order.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	out := make([]float64, len(dt.classes))
	copy(out, dt.classes)
	return out
}

// Score returns the training accuracy on (X, y).
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0
	}
	r, _ := y.Dims()
	correct := 0
	for i := 0; i < r; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(r)
}

// GetFeatureImportances returns normalized impurity-decrease importances.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	out := make([]float64, len(dt.importances))
	copy(out, dt.importances)
	return out
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeClassifier) GetDepth() int {
	return dt.root.depth()
}

// GetNLeaves returns the leaf count of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	return dt.root.leaves()
}

// GetParams returns the hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
		"min_samples_leaf":  dt.minSamplesLeaf,
		"max_features":      dt.maxFeatures,
	}
}

// SetParams updates hyperparameters from a map; unknown keys are rejected.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			dt.criterion = s
		case "max_depth":
			n, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			dt.maxDepth = n
		case "min_samples_split":
			n, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			dt.minSamplesSplit = n
		case "min_samples_leaf":
			n, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			dt.minSamplesLeaf = n
		case "max_features":
			n, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			dt.maxFeatures = n
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

func classCounts(classIdx, idx []int, k int) []float64 {
	counts := make([]float64, k)
	for _, i := range idx {
		counts[classIdx[i]]++
	}
	return counts
}

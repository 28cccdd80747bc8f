package metrics

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/oenolab/winebench/pkg/errors"
)

// ErrTooFewClasses is returned by MulticlassAUC when the true labels hold
// fewer than two distinct values. The evaluator wraps it into a
// DegenerateFoldError identifying the offending seed and fold.
var ErrTooFewClasses = errors.New("multiclass AUC requires at least two distinct true labels")

// MulticlassAUC computes the Hand & Till multiclass AUC: the average of
// pairwise binary AUCs over every unordered pair of classes observed in
// the true labels, using the predictions as ranking scores. For a pair
// (a, b) with a < b the higher class is the positive one, so a model that
// ranks higher-quality wines higher scores above 0.5.
func MulticlassAUC(yTrue, scores []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MulticlassAUC", "empty input")
	}
	if len(scores) != n {
		return 0, errors.NewDimensionError("MulticlassAUC", n, len(scores), 0)
	}

	classes := distinct(yTrue)
	if len(classes) < 2 {
		return 0, errors.Wrapf(ErrTooFewClasses, "observed classes %v", classes)
	}

	var total float64
	pairs := 0
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			auc := pairAUC(yTrue, scores, classes[i], classes[j])
			total += auc
			pairs++
		}
	}
	return total / float64(pairs), nil
}

// pairAUC is the binary AUC restricted to records of classes a and b,
// with b (the larger label) as the positive class.
func pairAUC(yTrue, scores []float64, a, b float64) float64 {
	var ys []float64
	var pos []bool
	for i, label := range yTrue {
		if label == a || label == b {
			ys = append(ys, scores[i])
			pos = append(pos, label == b)
		}
	}

	// stat.ROC requires scores in ascending order with classes aligned.
	idx := make([]int, len(ys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return ys[idx[i]] < ys[idx[j]] })
	sortedY := make([]float64, len(ys))
	sortedPos := make([]bool, len(ys))
	for i, k := range idx {
		sortedY[i] = ys[k]
		sortedPos[i] = pos[k]
	}

	tpr, fpr, _ := stat.ROC(nil, sortedY, sortedPos, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

func distinct(values []float64) []float64 {
	seen := map[float64]struct{}{}
	for _, v := range values {
		seen[v] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

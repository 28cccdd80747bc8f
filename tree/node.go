package tree

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// node is one tree node; leaves carry the prediction payload.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	leaf      bool
	// value is the leaf prediction: mean target for regression, class
	// index for classification.
	value float64
	// counts holds per-class sample counts at a classification leaf.
	counts []float64
}

func (n *node) depth() int {
	if n == nil || n.leaf {
		return 0
	}
	l := n.left.depth()
	r := n.right.depth()
	if l > r {
		return l + 1
	}
	return r + 1
}

func (n *node) leaves() int {
	if n == nil {
		return 0
	}
	if n.leaf {
		return 1
	}
	return n.left.leaves() + n.right.leaves()
}

func (n *node) traverse(x []float64) *node {
	cur := n
	for !cur.leaf {
		if x[cur.feature] <= cur.threshold {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return cur
}

// splitCandidate is the best threshold found for one feature.
type splitCandidate struct {
	feature   int
	threshold float64
	gain      float64
	leftIdx   []int
	rightIdx  []int
	ok        bool
}

// sortedOrder returns idx reordered by ascending feature value.
func sortedOrder(X mat.Matrix, idx []int, feature int) []int {
	order := make([]int, len(idx))
	copy(order, idx)
	sort.SliceStable(order, func(a, b int) bool {
		return X.At(order[a], feature) < X.At(order[b], feature)
	})
	return order
}

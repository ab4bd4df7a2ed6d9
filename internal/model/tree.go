package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// leaf marks a node without a split
const leaf = -1

// minGain is the smallest impurity decrease worth a split
const minGain = 1e-12

// Node is one split or leaf of a regression tree. Children are indexes
// into Tree.Nodes.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Samples   int
}

// Tree is a CART regression tree stored as a flat node list, root first
type Tree struct {
	Nodes []Node
}

// Predict walks the tree for x. A missing (NaN) feature follows the child
// that saw more training samples.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == leaf {
			return n.Value
		}
		v := x[n.Feature]
		switch {
		case math.IsNaN(v):
			if t.Nodes[n.Left].Samples >= t.Nodes[n.Right].Samples {
				i = n.Left
			} else {
				i = n.Right
			}
		case v <= n.Threshold:
			i = n.Left
		default:
			i = n.Right
		}
	}
}

// treeBuilder grows one tree over a bootstrap sample
type treeBuilder struct {
	x           [][]float64
	y           []float64
	cfg         Config
	tree        *Tree
	importances []float64
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

func growTree(x [][]float64, y []float64, idx []int, cfg Config) (*Tree, []float64) {
	b := &treeBuilder{
		x:           x,
		y:           y,
		cfg:         cfg,
		tree:        &Tree{},
		importances: make([]float64, len(x[0])),
	}
	b.build(idx, 0)
	return b.tree, b.importances
}

func (b *treeBuilder) build(idx []int, depth int) int {
	targets := b.targets(idx)
	pos := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{
		Feature: leaf,
		Value:   floats.Sum(targets) / float64(len(targets)),
		Samples: len(idx),
	})

	if b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth {
		return pos
	}
	if len(idx) < b.cfg.MinSamplesSplit || sse(targets) <= minGain {
		return pos
	}

	s, ok := b.bestSplit(idx, targets)
	if !ok {
		return pos
	}

	left := b.build(s.left, depth+1)
	right := b.build(s.right, depth+1)

	n := &b.tree.Nodes[pos]
	n.Feature = s.feature
	n.Threshold = s.threshold
	n.Left = left
	n.Right = right
	b.importances[s.feature] += s.gain
	return pos
}

func (b *treeBuilder) targets(idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = b.y[j]
	}
	return out
}

// bestSplit scans every feature for the threshold with the largest drop
// in squared error
func (b *treeBuilder) bestSplit(idx []int, targets []float64) (split, bool) {
	n := len(idx)
	parent := sse(targets)
	minLeaf := b.cfg.MinSamplesLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}

	best := split{feature: leaf}
	values := make([]float64, n)
	order := make([]int, n)

	for f := range b.importances {
		for i, j := range idx {
			values[i] = b.x[j][f]
		}
		floats.Argsort(values, order)

		var sumL, sqL float64
		sumAll := floats.Sum(targets)
		sqAll := floats.Dot(targets, targets)

		for k := 1; k < n; k++ {
			yk := targets[order[k-1]]
			sumL += yk
			sqL += yk * yk

			if k < minLeaf || n-k < minLeaf {
				continue
			}
			if values[k] == values[k-1] {
				continue
			}

			nl, nr := float64(k), float64(n-k)
			sumR, sqR := sumAll-sumL, sqAll-sqL
			gain := parent - (sqL - sumL*sumL/nl) - (sqR - sumR*sumR/nr)
			if gain > best.gain+minGain {
				best = split{
					feature:   f,
					threshold: (values[k-1] + values[k]) / 2,
					gain:      gain,
				}
			}
		}
	}

	if best.feature == leaf {
		return best, false
	}

	for _, j := range idx {
		if b.x[j][best.feature] <= best.threshold {
			best.left = append(best.left, j)
		} else {
			best.right = append(best.right, j)
		}
	}
	return best, true
}

// sse is the sum of squared deviations from the mean
func sse(ys []float64) float64 {
	if len(ys) == 0 {
		return 0
	}
	mean := floats.Sum(ys) / float64(len(ys))
	var s float64
	for _, y := range ys {
		d := y - mean
		s += d * d
	}
	return s
}

package tree

import (
	"fmt"
	"iter"

	"github.com/hupe1980/voctree/distance"
)

// Compile time check to ensure Euclidean satisfies the Tree contract.
var _ Tree[[]float32] = (*Euclidean)(nil)

// NodeData describes one node of a pre-trained vocabulary, in index order.
// The node's index is its position in the slice passed to Build.
type NodeData struct {
	// Parent is the index of the parent node, -1 for the root.
	Parent int32
	// Weight is the node's IDF prior. <= 0 excludes it from descriptors.
	Weight float32
	// Centroid is the cluster center learned during training. Ignored for
	// the root, required for every other node.
	Centroid []float32
}

// Euclidean is a vocabulary tree over []float32 feature descriptors.
// Descent picks the child whose centroid has the smallest squared L2
// distance to the feature.
type Euclidean struct {
	nodes     []Node
	centroids [][]float32
	children  [][]int32
}

// Build assembles an immutable Euclidean tree from pre-trained node data.
// data[0] must be the root (Parent == -1) and every parent must precede its
// children.
func Build(data []NodeData) (*Euclidean, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("vocabulary must contain at least a root node")
	}

	if data[0].Parent != -1 {
		return nil, fmt.Errorf("node 0 must be the root, got parent %d", data[0].Parent)
	}

	t := &Euclidean{
		nodes:     make([]Node, len(data)),
		centroids: make([][]float32, len(data)),
		children:  make([][]int32, len(data)),
	}

	for i, d := range data {
		t.nodes[i] = Node{Index: int32(i), Weight: d.Weight}
		t.centroids[i] = d.Centroid

		if i == 0 {
			continue
		}

		if d.Parent < 0 || int(d.Parent) >= i {
			return nil, fmt.Errorf("node %d: parent %d must precede the node", i, d.Parent)
		}

		if len(d.Centroid) == 0 {
			return nil, fmt.Errorf("node %d: missing centroid", i)
		}

		t.children[d.Parent] = append(t.children[d.Parent], int32(i))
	}

	return t, nil
}

// NodeCount implements Tree.
func (t *Euclidean) NodeCount() int {
	return len(t.nodes)
}

// Node implements Tree.
func (t *Euclidean) Node(i int) Node {
	return t.nodes[i]
}

// PathToLeaf implements Tree.
func (t *Euclidean) PathToLeaf(p []float32) iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		cur := int32(0)

		for depth := 0; len(t.children[cur]) > 0; depth++ {
			kids := t.children[cur]

			best := kids[0]
			bestDist := distance.SquaredL2(p, t.centroids[best])

			for _, c := range kids[1:] {
				if d := distance.SquaredL2(p, t.centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}

			if !yield(depth, t.nodes[best]) {
				return
			}

			cur = best
		}
	}
}

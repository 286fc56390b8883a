package tree

import (
	"iter"
)

// Node is a single visual word in the vocabulary.
type Node struct {
	// Index is the node's unique position in the tree, 0 = root.
	Index int32
	// Weight is the node's inverse-document-frequency prior assigned during
	// training. A weight <= 0 excludes the node from descriptors.
	Weight float32
}

// Tree is the vocabulary-tree contract consumed by the recognition engine.
//
// Implementations must be immutable after construction. PathToLeaf returns a
// lazy (depth, node) sequence so callers accumulate state themselves; the
// traversal itself is side-effect-free.
type Tree[P any] interface {
	// NodeCount returns the total number of nodes, including the root.
	NodeCount() int

	// Node returns the node at the given index.
	Node(i int) Node

	// PathToLeaf yields every node on the root-to-leaf path matching p, in
	// depth order. The root itself is not yielded; the first yielded node
	// has depth 0.
	PathToLeaf(p P) iter.Seq2[int, Node]
}

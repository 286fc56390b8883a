// Package tree defines the vocabulary-tree contract consumed by the
// recognition engine, plus a concrete tree over []float32 descriptors.
//
// A vocabulary tree is a pre-trained hierarchy of visual words. Training is
// out of scope here: Euclidean trees are assembled from already-clustered
// node data via Build and are immutable afterwards, which makes them safe to
// share read-only across any number of engine instances.
package tree

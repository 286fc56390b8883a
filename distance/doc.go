// Package distance provides the distance math used by Voctree.
//
// Two layers live here:
//
//   - Dense kernels (Dot, SquaredL2, ScaleInPlace) over []float32, used by
//     the vocabulary tree to descend toward the closest child node.
//   - The Norm strategy, which normalizes sparse TF-IDF descriptors and
//     scores candidate matches from the query/database word intersection.
//
// # Supported Norms
//
//   - L1: Manhattan normalization and overlap scoring
//   - L2: Euclidean normalization and dot-product scoring (default)
//
// # Usage
//
//	norm, err := distance.NewNorm(distance.L2)
//	norm.Normalize(weights)
//	err := norm.Distance(commonWords)
package distance

// Package recognizer implements inverted-file image retrieval over a
// pre-trained vocabulary tree, after Nister and Stewenius' "Scalable
// recognition with a vocabulary tree" (CVPR 2006).
//
// Every image is summarized as a sparse TF-IDF descriptor over the tree's
// visual words. Adding an image appends its (index, weight) pairs to the
// inverted file of every word it touches; querying gathers exactly the
// images that share at least one word, scores them from the sparse
// intersection, and keeps the best K via partial selection.
//
// Inverted files are kept for interior nodes as well as leaves, and the
// files store post-normalization descriptor weights rather than raw word
// counts, so scoring never revisits the tree.
//
// # Concurrency
//
// A Recognizer is NOT safe for concurrent use: Add and Query mutate the
// Workspace the caller passes in, and Add mutates the database. The
// Workspace parameter makes this explicit; callers wanting a serialized,
// workspace-free surface should use the voctree root package.
package recognizer

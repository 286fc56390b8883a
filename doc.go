// Package voctree provides an embedded image-retrieval engine for Go.
//
// Voctree finds the database images most similar to a query image. Each
// image is represented by its local feature descriptors; a pre-trained
// vocabulary tree quantizes those into visual words, every image becomes a
// sparse TF-IDF vector over the vocabulary, and an inverted-file index
// answers queries without exhaustive pairwise comparison. The approach
// follows Nister and Stewenius (CVPR 2006) and scales to millions of images.
//
// # Quick Start
//
//	vocab, _ := tree.Build(nodeData) // pre-trained vocabulary
//	db, _ := voctree.New[[]float32](vocab,
//	    voctree.WithNorm(distance.L2),
//	    voctree.WithMaxNodeImages(recognizer.Fixed(20000)),
//	)
//
//	db.Add(42, imageFeatures)
//
//	matches, _ := db.Query(queryFeatures, 10)
//	for _, m := range matches {
//	    fmt.Println(m.ID, m.Error) // lower error = more similar
//	}
//
// # What Voctree Does Not Do
//
// Training the vocabulary tree and detecting/describing image features are
// external concerns: Voctree consumes a finished tree and finished feature
// sets. Ranking is approximate by construction; it is an inverted-index
// ranking, not an exact nearest-neighbor guarantee.
//
// # Concurrency
//
// A DB serializes all calls internally and is safe for concurrent use. For
// multi-core scaling use Sharded, which partitions images across independent
// DB instances and fans queries out in parallel. The vocabulary tree is
// immutable and may back any number of instances.
//
// # Persistence
//
// The snapshot package serializes a database to any io.Writer with optional
// LZ4 or Zstd compression, and the blobstore package stores snapshots on the
// local filesystem, in memory, or in S3-compatible object storage.
package voctree

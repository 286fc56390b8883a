package voctree_test

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/voctree"
	"github.com/hupe1980/voctree/distance"
	"github.com/hupe1980/voctree/model"
	"github.com/hupe1980/voctree/snapshot"
	"github.com/hupe1980/voctree/tree"
)

// toyVocab builds a tiny single-level vocabulary. Real trees come from
// offline k-means training over millions of descriptors.
func toyVocab() *tree.Euclidean {
	data := []tree.NodeData{{Parent: -1}}
	for i := 0; i < 8; i++ {
		data = append(data, tree.NodeData{Parent: 0, Weight: 1, Centroid: []float32{float32(i)}})
	}

	tr, err := tree.Build(data)
	if err != nil {
		log.Fatal(err)
	}

	return tr
}

func features(vals ...float32) [][]float32 {
	out := make([][]float32, len(vals))
	for i, v := range vals {
		out[i] = []float32{v}
	}
	return out
}

// Example demonstrates indexing images and finding the most similar one.
func Example() {
	db, err := voctree.New[[]float32](toyVocab())
	if err != nil {
		log.Fatal(err)
	}

	db.Add(1, features(0, 1, 2))
	db.Add(2, features(5, 6, 7))

	matches, err := db.Query(features(0, 1, 2), 1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("best match: image %d\n", matches[0].ID)
	// Output: best match: image 1
}

// Example_l1Norm demonstrates selecting the L1 scoring norm, which the
// original Nister and Stewenius paper reports as slightly more accurate.
func Example_l1Norm() {
	db, err := voctree.New[[]float32](toyVocab(), voctree.WithNorm(distance.L1))
	if err != nil {
		log.Fatal(err)
	}

	db.Add(1, features(0, 1))

	matches, err := db.Query(features(0, 1), 1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("matches: %d\n", len(matches))
	// Output: matches: 1
}

// Example_sharded demonstrates spreading a large database over multiple
// shards that are queried in parallel.
func Example_sharded() {
	db, err := voctree.NewSharded[[]float32](toyVocab(), 4)
	if err != nil {
		log.Fatal(err)
	}

	for id := uint32(1); id <= 8; id++ {
		db.Add(model.ImageID(id), features(float32(id%8), float32((id+1)%8)))
	}

	matches, err := db.Query(context.Background(), features(3, 4), 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("matches: %d\n", len(matches))
	// Output: matches: 2
}

// Example_snapshot demonstrates persisting a database and restoring it.
func Example_snapshot() {
	db, err := voctree.New[[]float32](toyVocab())
	if err != nil {
		log.Fatal(err)
	}

	db.Add(1, features(0, 1, 2))

	var buf bytes.Buffer
	if err := snapshot.Write(context.Background(), &buf, db.State()); err != nil {
		log.Fatal(err)
	}

	restored, err := voctree.New[[]float32](db.Tree())
	if err != nil {
		log.Fatal(err)
	}

	state, err := snapshot.Read(&buf)
	if err != nil {
		log.Fatal(err)
	}

	if err := restored.Restore(state); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("restored %d images\n", restored.Len())
	// Output: restored 1 images
}

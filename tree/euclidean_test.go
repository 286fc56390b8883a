package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoLevelVocab builds a 2x2 vocabulary:
//
//	root ── n1 (0.0) ── n3 (0.25), n4 (0.75)
//	     └─ n2 (1.0) ── n5 (1.25), n6 (1.75)
func twoLevelVocab(t *testing.T) *Euclidean {
	t.Helper()

	tr, err := Build([]NodeData{
		{Parent: -1},
		{Parent: 0, Weight: 0.5, Centroid: []float32{0.0}},
		{Parent: 0, Weight: 0.5, Centroid: []float32{1.0}},
		{Parent: 1, Weight: 1, Centroid: []float32{0.25}},
		{Parent: 1, Weight: 1, Centroid: []float32{0.75}},
		{Parent: 2, Weight: 1, Centroid: []float32{1.25}},
		{Parent: 2, Weight: 1, Centroid: []float32{1.75}},
	})
	require.NoError(t, err)

	return tr
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name string
		data []NodeData
	}{
		{"Empty", nil},
		{"RootWithParent", []NodeData{{Parent: 3}}},
		{"ParentAfterChild", []NodeData{{Parent: -1}, {Parent: 2, Centroid: []float32{1}}, {Parent: 0, Centroid: []float32{2}}}},
		{"MissingCentroid", []NodeData{{Parent: -1}, {Parent: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestPathToLeaf(t *testing.T) {
	tr := twoLevelVocab(t)
	assert.Equal(t, 7, tr.NodeCount())

	tests := []struct {
		name    string
		feature []float32
		path    []int32
	}{
		{"FarLeft", []float32{-1.0}, []int32{1, 3}},
		{"LowMiddle", []float32{0.6}, []int32{2, 5}},
		{"FarRight", []float32{5.0}, []int32{2, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var depths []int
			var path []int32

			for depth, node := range tr.PathToLeaf(tt.feature) {
				depths = append(depths, depth)
				path = append(path, node.Index)
			}

			assert.Equal(t, tt.path, path)
			assert.Equal(t, []int{0, 1}, depths)
		})
	}
}

func TestPathToLeafEarlyStop(t *testing.T) {
	tr := twoLevelVocab(t)

	visits := 0
	for range tr.PathToLeaf([]float32{0.1}) {
		visits++
		break
	}

	assert.Equal(t, 1, visits)
}

func TestNodeLookup(t *testing.T) {
	tr := twoLevelVocab(t)

	n := tr.Node(3)
	assert.Equal(t, int32(3), n.Index)
	assert.InDelta(t, 1.0, n.Weight, 1e-6)

	root := tr.Node(0)
	assert.Equal(t, int32(0), root.Index)
	assert.InDelta(t, 0.0, root.Weight, 1e-6)
}

package recognizer

import (
	"github.com/hupe1980/voctree/model"
	"github.com/hupe1980/voctree/tree"
)

// sentinel marks an unused slot in the dense lookup tables.
const sentinel = int32(-1)

// frequency counts how often one visual word appears in a single image.
type frequency struct {
	node  tree.Node
	count int32
}

// Workspace holds the scratch state Add and Query need: dense sentinel
// lookup tables and recycled descriptor/match storage. Owning it explicitly
// is what makes the engine's no-concurrent-calls rule visible: one workspace
// serves exactly one in-flight call.
//
// The zero value is ready to use. A workspace may be shared across many
// Recognizer instances as long as calls are serialized.
type Workspace struct {
	// imageToMatch maps dense image index -> match slot during gathering.
	// Invariant: all entries are sentinel between public calls.
	imageToMatch []int32

	// nodeToFreq maps node index -> frequency slot during describe.
	// Invariant: all entries are sentinel between public calls.
	nodeToFreq []int32

	frequencies []frequency

	// Sparse TF-IDF descriptor of the call's image, parallel slices.
	descWords   []int32
	descWeights []float32

	matches []model.Match
}

// NewWorkspace returns an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// growTable resizes a sentinel table to n slots. New slots start at
// sentinel; existing slots are already sentinel between calls, so the
// all-sentinel invariant is preserved without a fill pass.
func growTable(table []int32, n int) []int32 {
	if n <= len(table) {
		return table[:n]
	}

	for len(table) < n {
		table = append(table, sentinel)
	}

	return table
}

// resetMatches empties the match list while keeping every element's Words
// capacity available for recycling.
func (ws *Workspace) resetMatches() {
	ws.matches = ws.matches[:0]
}

// growMatch appends one cleared match slot, recycling prior Words storage
// when the backing array still holds it.
func (ws *Workspace) growMatch() *model.Match {
	if len(ws.matches) < cap(ws.matches) {
		ws.matches = ws.matches[:len(ws.matches)+1]
		m := &ws.matches[len(ws.matches)-1]
		m.ID = 0
		m.Error = 0
		m.Words = m.Words[:0]
		return m
	}

	ws.matches = append(ws.matches, model.Match{})
	return &ws.matches[len(ws.matches)-1]
}

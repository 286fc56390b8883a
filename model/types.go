package model

import (
	"fmt"
)

// ImageID is the user-facing external image identifier.
// It is uint32 so that ID sets interoperate with 32-bit roaring bitmaps.
type ImageID uint32

// CommonWord records a visual word shared between the query image and a
// database image, together with the TF-IDF weight each side assigned to it.
// Both weights come from descriptors that have already been normalized, which
// is what allows distances to be computed from the sparse intersection alone.
type CommonWord struct {
	// Node is the vocabulary tree node index of the shared word.
	Node int32
	// QueryWeight is the word's weight in the query descriptor.
	QueryWeight float32
	// ImageWeight is the word's weight in the database image's descriptor.
	ImageWeight float32
}

// Match is a scored candidate image returned by a query.
type Match struct {
	// ID is the external identifier the image was added with.
	ID ImageID
	// Error is the descriptor distance. 0 = perfect match, lower is better.
	Error float32
	// Words lists every visual word the candidate shares with the query.
	// It aliases engine workspace storage and is only valid until the next
	// call that reuses the workspace.
	Words []CommonWord
}

// String returns a compact representation for logs and test failures.
func (m Match) String() string {
	return fmt.Sprintf("Match(id=%d error=%.6f words=%d)", m.ID, m.Error, len(m.Words))
}

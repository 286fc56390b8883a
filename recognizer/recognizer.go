package recognizer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/voctree/distance"
	"github.com/hupe1980/voctree/internal/quickselect"
	"github.com/hupe1980/voctree/model"
	"github.com/hupe1980/voctree/tree"
)

// ErrStateMismatch is returned by Restore when a snapshot does not fit the
// configured vocabulary tree.
var ErrStateMismatch = errors.New("state does not match vocabulary tree")

// InvertedFile lists the images observed at one vocabulary node. Images are
// referenced by dense database index; Weights holds the image descriptor's
// post-normalization weight for this word, parallel to Images.
type InvertedFile struct {
	Images  []int32
	Weights []float32
}

// Len returns the number of images recorded at this node.
func (f *InvertedFile) Len() int {
	return len(f.Images)
}

func (f *InvertedFile) add(imageIdx int32, weight float32) {
	f.Images = append(f.Images, imageIdx)
	f.Weights = append(f.Weights, weight)
}

func (f *InvertedFile) reset() {
	f.Images = f.Images[:0]
	f.Weights = f.Weights[:0]
}

// Options contains configuration options for the recognizer.
type Options struct {
	// MinDepth excludes nodes closer than this to the root from
	// descriptors. Shallow nodes are near-universal words with little
	// discriminative value.
	MinDepth int

	// MaxNodeImages caps the inverted file length considered during
	// gathering, resolved against the database size at query time. With a
	// million images in the database, Fixed(20000) is a reasonable value.
	MaxNodeImages Cap

	// Norm selects the descriptor norm used for normalization and scoring.
	Norm distance.Kind
}

// DefaultOptions contains the default configuration options for the recognizer.
var DefaultOptions = Options{
	MinDepth:      0,
	MaxNodeImages: Relative(1.0, 1),
	Norm:          distance.L2,
}

// Recognizer is the inverted-file retrieval engine over one vocabulary tree.
//
// Not safe for concurrent use; see the package documentation.
type Recognizer[P any] struct {
	tree tree.Tree[P]
	norm distance.Norm
	opts Options

	// images maps dense database index -> external ID, insertion order.
	images []model.ImageID
	// files has one inverted file per tree node, indexed by node index.
	files []InvertedFile
}

// New creates a recognizer over the given pre-trained tree. The tree is
// saved by reference and must not change afterwards.
func New[P any](t tree.Tree[P], optFns ...func(o *Options)) (*Recognizer[P], error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	norm, err := distance.NewNorm(opts.Norm)
	if err != nil {
		return nil, fmt.Errorf("recognizer: %w", err)
	}

	r := &Recognizer[P]{
		tree: t,
		norm: norm,
		opts: opts,
	}

	r.Clear()

	return r, nil
}

// Tree returns the vocabulary tree the recognizer was built over.
func (r *Recognizer[P]) Tree() tree.Tree[P] { return r.tree }

// Len returns the number of indexed images.
func (r *Recognizer[P]) Len() int { return len(r.images) }

// Clear removes all images from the database. Previously issued matches and
// internal indices are invalid afterwards; the next Add assigns index 0.
func (r *Recognizer[P]) Clear() {
	r.images = r.images[:0]

	if len(r.files) != r.tree.NodeCount() {
		r.files = make([]InvertedFile, r.tree.NodeCount())
		return
	}

	for i := range r.files {
		r.files[i].reset()
	}
}

// Add indexes a new image under the given external ID. An empty feature set
// is a no-op: the image is skipped and no index is consumed. Returns true if
// the image was indexed.
//
// Features whose tree path touches no qualifying node still consume an
// index; such an image contributes nothing to any inverted file and can
// never be returned as a match.
func (r *Recognizer[P]) Add(ws *Workspace, id model.ImageID, features []P) bool {
	if len(features) == 0 {
		return false
	}

	imageIdx := int32(len(r.images))
	r.images = append(r.images, id)

	r.describe(ws, features)

	for i, nodeIdx := range ws.descWords {
		r.files[nodeIdx].add(imageIdx, ws.descWeights[i])
	}

	return true
}

// Query ranks database images against the query features, best first.
// See QueryFiltered.
func (r *Recognizer[P]) Query(ws *Workspace, features []P, limit int) ([]model.Match, bool) {
	return r.QueryFiltered(ws, features, limit, nil)
}

// QueryFiltered ranks database images against the query features and keeps
// the limit lowest-error matches, sorted ascending by error. When allow is
// non-nil, images whose external ID is absent from it are never considered.
//
// Returns false when the features are empty, limit < 1, or no database
// image shares a word with the query; none of these are errors.
//
// The returned slice aliases workspace storage and is valid until the next
// Add or Query call that uses the same workspace.
func (r *Recognizer[P]) QueryFiltered(ws *Workspace, features []P, limit int, allow *roaring.Bitmap) ([]model.Match, bool) {
	ws.resetMatches()

	if len(features) == 0 || limit < 1 {
		return nil, false
	}

	// Over-common words degrade both runtime and discrimination; resolve
	// the stopword threshold against the current database size.
	maxFileLen := r.opts.MaxNodeImages.Resolve(len(r.images))

	r.describe(ws, features)

	ws.imageToMatch = growTable(ws.imageToMatch, len(r.images))

	for i, nodeIdx := range ws.descWords {
		queryWeight := ws.descWeights[i]

		file := &r.files[nodeIdx]
		if file.Len() > maxFileLen {
			continue
		}

		for j, imageIdx := range file.Images {
			if allow != nil && !allow.Contains(uint32(r.images[imageIdx])) {
				continue
			}

			slot := ws.imageToMatch[imageIdx]
			if slot == sentinel {
				slot = int32(len(ws.matches))
				ws.imageToMatch[imageIdx] = slot

				// ID carries the internal index until scoring converts it.
				m := ws.growMatch()
				m.ID = model.ImageID(imageIdx)
			}

			m := &ws.matches[slot]
			m.Words = append(m.Words, model.CommonWord{
				Node:        nodeIdx,
				QueryWeight: queryWeight,
				ImageWeight: file.Weights[j],
			})
		}
	}

	if len(ws.matches) == 0 {
		return nil, false
	}

	for i := range ws.matches {
		m := &ws.matches[i]
		m.Error = r.norm.Distance(m.Words)

		// Restore the sentinel and resolve the external ID.
		ws.imageToMatch[m.ID] = sentinel
		m.ID = r.images[m.ID]
	}

	// Selecting before sorting is two orders of magnitude faster than a
	// full sort at million-image scale.
	if len(ws.matches) > limit {
		quickselect.Select(ws.matches, limit, func(a, b model.Match) bool {
			return a.Error < b.Error
		})
		ws.matches = ws.matches[:limit]
	}

	sort.Slice(ws.matches, func(i, j int) bool {
		return ws.matches[i].Error < ws.matches[j].Error
	})

	return ws.matches, true
}

// describe computes the image's sparse TF-IDF descriptor into the workspace
// descriptor slices and normalizes it.
//
// Term frequency is normalized by the number of distinct qualifying words
// the image touched, not by raw feature count; the node weight supplies the
// IDF part. An image touching no qualifying node yields an empty descriptor.
func (r *Recognizer[P]) describe(ws *Workspace, features []P) {
	ws.frequencies = ws.frequencies[:0]
	ws.descWords = ws.descWords[:0]
	ws.descWeights = ws.descWeights[:0]

	ws.nodeToFreq = growTable(ws.nodeToFreq, r.tree.NodeCount())

	for i := range features {
		for depth, node := range r.tree.PathToLeaf(features[i]) {
			if depth < r.opts.MinDepth || node.Weight <= 0 {
				continue
			}

			slot := ws.nodeToFreq[node.Index]
			if slot == sentinel {
				slot = int32(len(ws.frequencies))
				ws.nodeToFreq[node.Index] = slot
				ws.frequencies = append(ws.frequencies, frequency{node: node})
			}

			ws.frequencies[slot].count++
		}
	}

	// Restore the all-sentinel invariant before anything can return.
	for i := range ws.frequencies {
		ws.nodeToFreq[ws.frequencies[i].node.Index] = sentinel
	}

	if len(ws.frequencies) == 0 {
		return
	}

	uniqueWords := float32(len(ws.frequencies))

	for i := range ws.frequencies {
		f := &ws.frequencies[i]

		termFrequency := float32(f.count) / uniqueWords
		ws.descWords = append(ws.descWords, f.node.Index)
		ws.descWeights = append(ws.descWeights, termFrequency*f.node.Weight)
	}

	r.norm.Normalize(ws.descWeights)
}

// State is a view of the database used by snapshot collaborators. The
// slices alias live engine storage: treat it as read-only and do not touch
// the engine while holding it.
type State struct {
	Options Options
	Images  []model.ImageID
	Files   []InvertedFile
}

// State exports the current database state.
func (r *Recognizer[P]) State() State {
	return State{
		Options: r.opts,
		Images:  r.images,
		Files:   r.files,
	}
}

// Restore replaces the database with a previously exported state. The state
// must come from a recognizer over a tree with the same node count.
func (r *Recognizer[P]) Restore(s State) error {
	if len(s.Files) != r.tree.NodeCount() {
		return fmt.Errorf("%w: %d inverted files for %d nodes", ErrStateMismatch, len(s.Files), r.tree.NodeCount())
	}

	norm, err := distance.NewNorm(s.Options.Norm)
	if err != nil {
		return fmt.Errorf("recognizer: %w", err)
	}

	for i := range s.Files {
		if len(s.Files[i].Images) != len(s.Files[i].Weights) {
			return fmt.Errorf("%w: node %d has %d images but %d weights", ErrStateMismatch, i, len(s.Files[i].Images), len(s.Files[i].Weights))
		}
		for _, imageIdx := range s.Files[i].Images {
			if imageIdx < 0 || int(imageIdx) >= len(s.Images) {
				return fmt.Errorf("%w: node %d references image index %d of %d", ErrStateMismatch, i, imageIdx, len(s.Images))
			}
		}
	}

	r.opts = s.Options
	r.norm = norm
	r.images = s.Images
	r.files = s.Files

	return nil
}

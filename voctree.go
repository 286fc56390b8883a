package voctree

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/voctree/model"
	"github.com/hupe1980/voctree/recognizer"
	"github.com/hupe1980/voctree/tree"
)

// DB is the serialized facade over one recognition engine. It owns the
// engine's workspace and a mutex, so all methods are safe for concurrent
// use; calls execute one at a time.
type DB[P any] struct {
	mu      sync.Mutex
	rec     *recognizer.Recognizer[P]
	ws      *recognizer.Workspace
	logger  *Logger
	metrics MetricsCollector
}

// New creates a DB over a pre-trained vocabulary tree. The tree is treated
// as read-only and may back any number of DB instances.
func New[P any](t tree.Tree[P], optFns ...Option) (*DB[P], error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	rec, err := recognizer.New[P](t, func(o *recognizer.Options) {
		o.MinDepth = opts.minDepth
		o.MaxNodeImages = opts.maxNodeImages
		o.Norm = opts.norm
	})
	if err != nil {
		return nil, &ErrUnknownNorm{Name: opts.norm.String(), cause: err}
	}

	return &DB[P]{
		rec:     rec,
		ws:      recognizer.NewWorkspace(),
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}, nil
}

// Len returns the number of indexed images.
func (db *DB[P]) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.rec.Len()
}

// Tree returns the vocabulary tree the database was built over.
func (db *DB[P]) Tree() tree.Tree[P] {
	return db.rec.Tree()
}

// Add indexes an image under the given external ID. An empty feature set is
// skipped silently and returns false; no index is consumed.
func (db *DB[P]) Add(id model.ImageID, features []P) bool {
	start := time.Now()

	db.mu.Lock()
	indexed := db.rec.Add(db.ws, id, features)
	db.mu.Unlock()

	db.metrics.RecordAdd(time.Since(start), indexed)
	db.logger.LogAdd(uint32(id), len(features), indexed)

	return indexed
}

// Query returns up to limit matches ranked ascending by error, lower error
// meaning more similar. An empty result means no database image shares a
// visual word with the query; that is a normal outcome, not an error.
//
// The returned matches are copies and remain valid indefinitely.
func (db *DB[P]) Query(features []P, limit int) ([]model.Match, error) {
	return db.QueryFiltered(features, limit, nil)
}

// QueryFiltered is Query restricted to an allow-list of external image IDs.
// A nil bitmap means no restriction.
func (db *DB[P]) QueryFiltered(features []P, limit int, allow *roaring.Bitmap) ([]model.Match, error) {
	start := time.Now()

	matches, err := db.queryFiltered(features, limit, allow)

	db.metrics.RecordQuery(limit, len(matches), time.Since(start), err)
	db.logger.LogQuery(limit, len(matches), err)

	return matches, err
}

func (db *DB[P]) queryFiltered(features []P, limit int, allow *roaring.Bitmap) ([]model.Match, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	matches, ok := db.rec.QueryFiltered(db.ws, features, limit, allow)
	if !ok {
		return nil, nil
	}

	// Matches alias workspace storage; copy them out so they survive the
	// next call.
	out := make([]model.Match, len(matches))
	for i, m := range matches {
		out[i] = m
		out[i].Words = slices.Clone(m.Words)
	}

	return out, nil
}

// Clear removes all images from the database.
func (db *DB[P]) Clear() {
	db.mu.Lock()
	images := db.rec.Len()
	db.rec.Clear()
	db.mu.Unlock()

	db.metrics.RecordClear()
	db.logger.LogClear(images)
}

// State exports the database state for snapshot collaborators. The returned
// state aliases live storage: do not call Add or Clear while using it.
func (db *DB[P]) State() recognizer.State {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.rec.State()
}

// Restore replaces the database with a previously exported state.
func (db *DB[P]) Restore(s recognizer.State) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.rec.Restore(s)
}

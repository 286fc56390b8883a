package voctree

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/voctree/model"
	"github.com/hupe1980/voctree/resource"
	"github.com/hupe1980/voctree/tree"
)

// Sharded partitions images across independent DB shards for multi-core
// scaling. Adds route round-robin to a single shard; queries fan out to all
// shards in parallel and merge to a global top-K.
//
// Each shard has its own lock and workspace, so shard queries genuinely run
// in parallel. The shared vocabulary tree is read-only and safe to share.
type Sharded[P any] struct {
	shards []*DB[P]
	next   atomic.Uint64
	ctrl   *resource.Controller
}

// NewSharded creates numShards independent DB shards over one shared tree.
// All Option values apply to every shard; WithController additionally bounds
// how many shard queries run at once.
func NewSharded[P any](t tree.Tree[P], numShards int, optFns ...Option) (*Sharded[P], error) {
	if numShards < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, numShards)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	shards := make([]*DB[P], numShards)
	for i := range shards {
		db, err := New[P](t, optFns...)
		if err != nil {
			return nil, err
		}
		shards[i] = db
	}

	return &Sharded[P]{
		shards: shards,
		ctrl:   opts.controller,
	}, nil
}

// Shards returns the number of shards.
func (s *Sharded[P]) Shards() int {
	return len(s.shards)
}

// Len returns the total number of indexed images across all shards.
func (s *Sharded[P]) Len() int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Len()
	}
	return total
}

// Add indexes an image on the next shard in round-robin order. Empty
// feature sets are skipped and consume no index.
func (s *Sharded[P]) Add(id model.ImageID, features []P) bool {
	shard := s.next.Add(1) - 1
	return s.shards[shard%uint64(len(s.shards))].Add(id, features)
}

// Query fans the query out to every shard and merges the per-shard results
// into a global top-limit ranking, ascending by error.
func (s *Sharded[P]) Query(ctx context.Context, features []P, limit int) ([]model.Match, error) {
	return s.QueryFiltered(ctx, features, limit, nil)
}

// QueryFiltered is Query restricted to an allow-list of external image IDs.
// A nil bitmap means no restriction.
func (s *Sharded[P]) QueryFiltered(ctx context.Context, features []P, limit int, allow *roaring.Bitmap) ([]model.Match, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	g, ctx := errgroup.WithContext(ctx)

	results := make([][]model.Match, len(s.shards))
	for i, shard := range s.shards {
		g.Go(func() error {
			if err := s.ctrl.AcquireQuery(ctx); err != nil {
				return err
			}
			defer s.ctrl.ReleaseQuery()

			matches, err := shard.QueryFiltered(features, limit, allow)
			if err != nil {
				return err
			}

			results[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Each shard contributes at most limit matches, so the merge set is
	// small; a plain sort beats anything cleverer here.
	var merged []model.Match
	for _, r := range results {
		merged = append(merged, r...)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Error < merged[j].Error
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	return merged, nil
}

// Clear removes all images from every shard.
func (s *Sharded[P]) Clear() {
	for _, shard := range s.shards {
		shard.Clear()
	}
	s.next.Store(0)
}

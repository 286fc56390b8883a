package snapshot

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/voctree/blobstore"
	"github.com/hupe1980/voctree/distance"
	"github.com/hupe1980/voctree/model"
	"github.com/hupe1980/voctree/recognizer"
	"github.com/hupe1980/voctree/resource"
	"github.com/hupe1980/voctree/tree"
)

// flatVocab builds a single-level vocabulary with one leaf per weight,
// centered at 0, 1, 2, ... so a feature value picks the nearest integer leaf.
func flatVocab(t *testing.T, weights ...float32) *tree.Euclidean {
	t.Helper()

	data := []tree.NodeData{{Parent: -1}}
	for i, w := range weights {
		data = append(data, tree.NodeData{Parent: 0, Weight: w, Centroid: []float32{float32(i)}})
	}

	tr, err := tree.Build(data)
	require.NoError(t, err)

	return tr
}

func feats(vals ...float32) [][]float32 {
	out := make([][]float32, len(vals))
	for i, v := range vals {
		out[i] = []float32{v}
	}
	return out
}

// populated builds a recognizer with a few indexed images so snapshots carry
// non-trivial inverted files.
func populated(t *testing.T) (*recognizer.Recognizer[[]float32], *tree.Euclidean) {
	t.Helper()

	tr := flatVocab(t, 1, 1, 1, 1)

	r, err := recognizer.New[[]float32](tr, func(o *recognizer.Options) {
		o.Norm = distance.L1
		o.MaxNodeImages = recognizer.Relative(0.5, 2)
	})
	require.NoError(t, err)

	ws := recognizer.NewWorkspace()
	require.True(t, r.Add(ws, 10, feats(0, 1, 1)))
	require.True(t, r.Add(ws, 11, feats(2, 3)))
	require.True(t, r.Add(ws, 12, feats(0, 3, 3)))

	return r, tr
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			r, tr := populated(t)

			var buf bytes.Buffer
			err := Write(context.Background(), &buf, r.State(), func(o *Options) {
				o.Compression = c
			})
			require.NoError(t, err)

			got, err := Read(&buf)
			require.NoError(t, err)

			restored, err := recognizer.New[[]float32](tr)
			require.NoError(t, err)
			require.NoError(t, restored.Restore(got))

			require.Equal(t, 3, restored.Len())

			// Restored options must survive, including the norm.
			assert.Equal(t, distance.L1, restored.State().Options.Norm)
			assert.Equal(t, recognizer.Relative(0.5, 2), restored.State().Options.MaxNodeImages)

			// The restored index must answer queries like the original.
			ws := recognizer.NewWorkspace()
			want, ok := r.Query(ws, feats(0, 1, 1), 3)
			require.True(t, ok)

			matches, ok := restored.Query(recognizer.NewWorkspace(), feats(0, 1, 1), 3)
			require.True(t, ok)
			require.Equal(t, want, matches)
			assert.Equal(t, model.ImageID(10), matches[0].ID)
			assert.InDelta(t, 0, matches[0].Error, 1e-5)
		})
	}
}

func TestRoundTripEmpty(t *testing.T) {
	tr := flatVocab(t, 1, 1)

	r, err := recognizer.New[[]float32](tr)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, r.State()))

	got, err := Read(&buf)
	require.NoError(t, err)

	restored, err := recognizer.New[[]float32](tr)
	require.NoError(t, err)
	require.NoError(t, restored.Restore(got))
	require.Equal(t, 0, restored.Len())
}

func TestReadBadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("XXXX\x01\x00rest")))
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestReadUnsupportedVersion(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("VTRE\x07\x00")))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestReadUnknownCompression(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("VTRE\x01\x09payload")))
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestReadTruncated(t *testing.T) {
	r, _ := populated(t)

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, r.State(), func(o *Options) {
		o.Compression = CompressionNone
	}))

	// Cut the payload short somewhere past the header.
	_, err := Read(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestWriteThrottled(t *testing.T) {
	r, _ := populated(t)

	ctrl := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 24})

	var buf bytes.Buffer
	err := Write(context.Background(), &buf, r.State(), func(o *Options) {
		o.Controller = ctrl
	})
	require.NoError(t, err)

	_, err = Read(&buf)
	require.NoError(t, err)
}

func TestSaveLoad(t *testing.T) {
	r, tr := populated(t)

	store := blobstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, Save(ctx, store, "snapshots/db.vt", r.State()))

	names, err := store.List(ctx, "snapshots/")
	require.NoError(t, err)
	require.Equal(t, []string{"snapshots/db.vt"}, names)

	got, err := Load(ctx, store, "snapshots/db.vt")
	require.NoError(t, err)

	restored, err := recognizer.New[[]float32](tr)
	require.NoError(t, err)
	require.NoError(t, restored.Restore(got))
	require.Equal(t, 3, restored.Len())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), blobstore.NewMemoryStore(), "nope")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

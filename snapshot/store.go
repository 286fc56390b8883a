package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/voctree/blobstore"
	"github.com/hupe1980/voctree/recognizer"
)

// Save writes a snapshot of s to the given blob store under name. The blob
// only becomes visible once the full snapshot has been written.
func Save(ctx context.Context, store blobstore.Store, name string, s recognizer.State, optFns ...func(o *Options)) error {
	pr, pw := io.Pipe()

	done := make(chan error, 1)
	go func() {
		err := store.Put(ctx, name, pr)
		// Unblock the writer if the store stopped consuming early.
		_ = pr.CloseWithError(err)
		done <- err
	}()

	err := Write(ctx, pw, s, optFns...)
	_ = pw.CloseWithError(err)

	if putErr := <-done; putErr != nil {
		return fmt.Errorf("store snapshot: %w", putErr)
	}

	return err
}

// Load reads a snapshot from the given blob store. The result still has to
// be handed to Recognizer.Restore, which validates it against the tree.
func Load(ctx context.Context, store blobstore.Store, name string) (recognizer.State, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return recognizer.State{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer rc.Close()

	return Read(rc)
}

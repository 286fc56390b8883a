package voctree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLimit is returned when a query limit is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidShardCount is returned when a sharded engine is created
	// with fewer than one shard.
	ErrInvalidShardCount = errors.New("shard count must be positive")
)

// ErrUnknownNorm indicates an unrecognized distance norm selection.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnknownNorm struct {
	Name  string
	cause error
}

func (e *ErrUnknownNorm) Error() string {
	return fmt.Sprintf("unknown norm: %s", e.Name)
}

func (e *ErrUnknownNorm) Unwrap() error { return e.cause }

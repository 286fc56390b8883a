package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilController(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireQuery(context.Background()))
	c.ReleaseQuery()
	assert.EqualValues(t, 0, c.InFlightQueries())
	assert.NoError(t, c.WaitIO(context.Background(), 1<<20))
}

func TestQuerySlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentQueries: 2})
	ctx := context.Background()

	require.NoError(t, c.AcquireQuery(ctx))
	require.NoError(t, c.AcquireQuery(ctx))
	assert.EqualValues(t, 2, c.InFlightQueries())

	// Third slot blocks until a release or the deadline.
	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireQuery(timeout))

	c.ReleaseQuery()
	require.NoError(t, c.AcquireQuery(ctx))

	c.ReleaseQuery()
	c.ReleaseQuery()
	assert.EqualValues(t, 0, c.InFlightQueries())
}

func TestWaitIOUnlimited(t *testing.T) {
	c := NewController(Config{})
	assert.NoError(t, c.WaitIO(context.Background(), 64<<20))
}

func TestWaitIOSplitsLargeRequests(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// Slightly larger than the burst: must be chunked rather than rejected.
	assert.NoError(t, c.WaitIO(context.Background(), (1<<20)+1024))
}

func TestWaitIOCancel(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, c.WaitIO(ctx, 100))
}

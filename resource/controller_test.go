package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_MemoryLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1024})

	assert.True(t, c.TryAcquireMemory(512))
	assert.True(t, c.TryAcquireMemory(512))
	assert.False(t, c.TryAcquireMemory(1))
	assert.Equal(t, int64(1024), c.MemoryUsage())

	c.ReleaseMemory(512)
	assert.Equal(t, int64(512), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(256))
}

func TestController_TrackingOnly(t *testing.T) {
	c := NewController(Config{})

	assert.True(t, c.TryAcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_NilIsNoop(t *testing.T) {
	var c *Controller

	assert.True(t, c.TryAcquireMemory(1))
	c.ReleaseMemory(1)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquirePass(context.Background()))
	c.ReleasePass()
	require.NoError(t, c.AcquireIO(context.Background(), 1))
}

func TestController_PassSlots(t *testing.T) {
	c := NewController(Config{MaxCollectiveWorkers: 1})

	ctx := context.Background()
	require.NoError(t, c.AcquirePass(ctx))

	blocked, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquirePass(blocked))

	c.ReleasePass()
	require.NoError(t, c.AcquirePass(ctx))
	c.ReleasePass()
}

func TestController_IOLimit(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	require.NoError(t, c.AcquireIO(context.Background(), 1024))
}

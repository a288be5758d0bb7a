package sparsegrid

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/sparsegrid/arena"
)

// Manager exclusively owns the arena of one node kind. It has no state
// beyond the arena; its job is to exist at a stable, registry-addressable
// location.
type Manager[C any] struct {
	arena *arena.Arena[C]
}

// Allocator returns the kind's arena.
func (m *Manager[C]) Allocator() *arena.Arena[C] {
	return m.arena
}

// managerHandle is the type-erased view the registry holds of every
// populated Manager slot, enough for collective passes and diagnostics.
type managerHandle interface {
	clear(ctx context.Context)
	stat() arena.Stat
	activeSet() *roaring64.Bitmap
	close()
}

func (m *Manager[C]) clear(ctx context.Context) {
	m.arena.Clear(ctx)
}

func (m *Manager[C]) stat() arena.Stat {
	return m.arena.Stat()
}

func (m *Manager[C]) activeSet() *roaring64.Bitmap {
	return m.arena.ActiveSet()
}

func (m *Manager[C]) close() {
	m.arena.Close()
}

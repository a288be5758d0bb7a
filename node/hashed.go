package node

import (
	"math"
	"sync"

	"github.com/hupe1980/sparsegrid"
)

// Hashed holds lazily materialized children keyed by index, for levels too
// sparse even for pointer fan-out. All access serializes through one coarse
// mutex; hashed levels sit near the root where contention is low and
// correctness beats throughput.
type Hashed[C any] struct {
	kind sparsegrid.KindID

	mu       sync.Mutex
	children map[int32]*C
}

// NewHashed returns an empty hashed node whose children, once activated,
// are claimed from kind's arena.
func NewHashed[C any](kind sparsegrid.KindID) *Hashed[C] {
	return &Hashed[C]{kind: kind}
}

// Init rebinds the node to kind and drops all held child references.
func (h *Hashed[C]) Init(kind sparsegrid.KindID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kind = kind
	h.children = nil
}

// Lookup returns child i, or nil if it has not been activated.
func (h *Hashed[C]) Lookup(_ sparsegrid.Exec, i int32) *C {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.children[i]
}

// Activate ensures child i exists, claiming a slot from the kind's arena on
// first activation of that index.
func (h *Hashed[C]) Activate(ec sparsegrid.Exec, i int32, coord sparsegrid.Coordinate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.children == nil {
		h.children = make(map[int32]*C)
	}
	if h.children[i] != nil {
		return
	}
	h.children[i] = sparsegrid.AllocateNode[C](ec, h.kind, coord)
}

// Len is the number of activated children.
func (h *Hashed[C]) Len() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int32(len(h.children))
}

// Cap is unbounded in practice; the arena behind the kind is the real limit.
func (h *Hashed[C]) Cap() int32 { return math.MaxInt32 }

func (h *Hashed[C]) HasNull() bool { return true }

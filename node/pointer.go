package node

import (
	"sync/atomic"

	"github.com/hupe1980/sparsegrid"
	"github.com/hupe1980/sparsegrid/internal/spin"
)

// Pointer holds at most one lazily materialized child, allocated from the
// arena of the declared kind on first activation. It is the sparsity
// primitive: a whole subtree collapses to one nil pointer until touched.
type Pointer[C any] struct {
	kind sparsegrid.KindID

	lock  spin.Lock
	child atomic.Pointer[C]
}

// NewPointer returns an unactivated pointer node whose child, once
// activated, is claimed from kind's arena.
func NewPointer[C any](kind sparsegrid.KindID) *Pointer[C] {
	return &Pointer[C]{kind: kind}
}

// Init rebinds the node to kind and drops any held child reference. It is
// meant to run inside a parent kind's slot initializer.
func (p *Pointer[C]) Init(kind sparsegrid.KindID) {
	p.kind = kind
	p.child.Store(nil)
}

// Lookup returns the child, or nil if it has not been activated. The index
// is ignored.
func (p *Pointer[C]) Lookup(sparsegrid.Exec, int32) *C {
	return p.child.Load()
}

// Activate ensures the child exists, claiming a slot from the kind's arena
// on first call. On the parallel lane the null-check-then-allocate is
// serialized through the node's spin lock so concurrent activations claim
// exactly one slot; the sequential lane takes the unlocked path. After
// Activate returns, Lookup observes a non-nil child.
func (p *Pointer[C]) Activate(ec sparsegrid.Exec, _ int32, coord sparsegrid.Coordinate) {
	if ec.Lane == sparsegrid.LaneParallel {
		if p.child.Load() != nil {
			return
		}
		p.lock.Lock()
		defer p.lock.Unlock()
		if p.child.Load() != nil {
			return
		}
		p.child.Store(sparsegrid.AllocateNode[C](ec, p.kind, coord))
		return
	}

	if p.child.Load() == nil {
		p.child.Store(sparsegrid.AllocateNode[C](ec, p.kind, coord))
	}
}

// Len reports 1 once the child is activated, 0 before.
func (p *Pointer[C]) Len() int32 {
	if p.child.Load() != nil {
		return 1
	}
	return 0
}

func (p *Pointer[C]) Cap() int32 { return 1 }

func (p *Pointer[C]) HasNull() bool { return true }

package node

import "github.com/hupe1980/sparsegrid"

// Root holds the single eagerly embedded child at the top of a tree.
type Root[C any] struct {
	child C
}

// Lookup returns the embedded child. The index is ignored.
func (r *Root[C]) Lookup(sparsegrid.Exec, int32) *C {
	return &r.child
}

// Activate is a no-op: the child exists from construction.
func (r *Root[C]) Activate(sparsegrid.Exec, int32, sparsegrid.Coordinate) {}

func (r *Root[C]) Len() int32 { return 1 }

func (r *Root[C]) Cap() int32 { return 1 }

// HasNull is degenerately true: root counts as a sparse level even though
// its single child always exists.
func (r *Root[C]) HasNull() bool { return true }

package node

import "github.com/hupe1980/sparsegrid"

// Dense holds a fixed block of eagerly embedded children, addressed by
// index. It is the leaf workhorse: a dense tile inside a sparse tree.
type Dense[C any] struct {
	children []C
}

// NewDense returns a dense block of n zero-valued children.
func NewDense[C any](n int32) *Dense[C] {
	d := &Dense[C]{}
	d.Init(n)
	return d
}

// Init sizes the block to n zero-valued children. It is meant to run inside
// a kind's slot initializer, after the arena has zero-filled the slot.
func (d *Dense[C]) Init(n int32) {
	d.children = make([]C, n)
}

// Lookup returns child i. Out-of-range indices return nil rather than
// panicking so traversal code can probe uniformly across variants.
func (d *Dense[C]) Lookup(_ sparsegrid.Exec, i int32) *C {
	if i < 0 || int(i) >= len(d.children) {
		return nil
	}
	return &d.children[i]
}

// Activate is a no-op: every child exists from Init.
func (d *Dense[C]) Activate(sparsegrid.Exec, int32, sparsegrid.Coordinate) {}

func (d *Dense[C]) Len() int32 { return int32(len(d.children)) }

func (d *Dense[C]) Cap() int32 { return int32(len(d.children)) }

func (d *Dense[C]) HasNull() bool { return false }

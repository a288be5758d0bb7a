// Package node implements the six node-kind variants that make up a sparse
// hierarchical array: root, dense, pointer, hashed, dynamic and indirect.
//
// All variants satisfy one contract, Kind, so generated traversal code can
// walk a tree without caring which variant sits at each level. The variants
// differ only in how children come into existence: eagerly embedded (root,
// dense), lazily behind a guarded null check (pointer, hashed) or by bounded
// append (dynamic, indirect).
package node

import (
	"errors"

	"github.com/hupe1980/sparsegrid"
)

// Kind is the uniform lookup and activation contract every node-kind
// variant satisfies for children of type C.
//
// Lookup resolves child i, returning nil when it does not exist. Activate
// ensures child i exists; for eager variants it is a no-op. Len is the
// current child count, Cap the maximum, and HasNull reports whether lookups
// can observe an absent child.
type Kind[C any] interface {
	Lookup(ec sparsegrid.Exec, i int32) *C
	Activate(ec sparsegrid.Exec, i int32, coord sparsegrid.Coordinate)
	Len() int32
	Cap() int32
	HasNull() bool
}

// ErrAppendOverflow is the fatal raised when a bounded append exceeds the
// variant's fixed capacity. There is no resize and no backpressure.
var ErrAppendOverflow = errors.New("node: bounded append overflow")

var (
	_ Kind[int32] = (*Root[int32])(nil)
	_ Kind[int32] = (*Dense[int32])(nil)
	_ Kind[int32] = (*Pointer[int32])(nil)
	_ Kind[int32] = (*Hashed[int32])(nil)
	_ Kind[int32] = (*Dynamic[int32])(nil)
	_ Kind[int32] = (*Indirect)(nil)
)

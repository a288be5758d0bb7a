package node

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/sparsegrid"
)

// Indirect is the bounded append-only list specialized to raw int32 values,
// used for index buffers that reference slots in other levels rather than
// holding child storage of their own.
type Indirect struct {
	data []int32
	n    atomic.Int32
}

// NewIndirect returns an empty indirect node with room for capacity values.
func NewIndirect(capacity int32) *Indirect {
	x := &Indirect{}
	x.Init(capacity)
	return x
}

// Init sizes the backing block to capacity and resets the length.
func (x *Indirect) Init(capacity int32) {
	x.data = make([]int32, capacity)
	x.n.Store(0)
}

// Append claims the next slot, stores v there and returns the slot index.
// Safe for concurrent use. Appending past capacity panics with
// ErrAppendOverflow.
func (x *Indirect) Append(v int32) int32 {
	i := x.n.Add(1) - 1
	if int(i) >= len(x.data) {
		panic(fmt.Errorf("%w: index %d capacity %d", ErrAppendOverflow, i, len(x.data)))
	}
	x.data[i] = v
	return i
}

// Lookup returns a pointer to value i. Like the dynamic kind, a
// sequential-lane lookup past the logical length grows it to i+1 and
// panics with ErrAppendOverflow past capacity; the parallel lane is
// read-only and returns nil beyond the length.
func (x *Indirect) Lookup(ec sparsegrid.Exec, i int32) *int32 {
	if i < 0 {
		return nil
	}
	if ec.Lane == sparsegrid.LaneSequential {
		if int(i) >= len(x.data) {
			panic(fmt.Errorf("%w: index %d capacity %d", ErrAppendOverflow, i, len(x.data)))
		}
		if i >= x.n.Load() {
			x.n.Store(i + 1)
		}
		return &x.data[i]
	}
	if i >= x.n.Load() {
		return nil
	}
	return &x.data[i]
}

// Activate is a no-op: values enter only through Append.
func (x *Indirect) Activate(sparsegrid.Exec, int32, sparsegrid.Coordinate) {}

// Clear resets the logical length to zero.
func (x *Indirect) Clear() {
	x.n.Store(0)
}

func (x *Indirect) Len() int32 { return x.n.Load() }

func (x *Indirect) Cap() int32 { return int32(len(x.data)) }

func (x *Indirect) HasNull() bool { return false }

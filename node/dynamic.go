package node

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/sparsegrid"
)

// Dynamic is a bounded append-only list of children: a fixed backing block
// plus an atomic logical length. Grid workers append concurrently with a
// fetch-and-add on the length; growing past the fixed capacity is fatal.
type Dynamic[C any] struct {
	data []C
	n    atomic.Int32
}

// NewDynamic returns an empty dynamic node with room for capacity children.
func NewDynamic[C any](capacity int32) *Dynamic[C] {
	d := &Dynamic[C]{}
	d.Init(capacity)
	return d
}

// Init sizes the backing block to capacity and resets the length.
func (d *Dynamic[C]) Init(capacity int32) {
	d.data = make([]C, capacity)
	d.n.Store(0)
}

// Append claims the next slot, stores v there and returns the slot index.
// Safe for concurrent use; each caller receives a distinct index. Appending
// past capacity panics with ErrAppendOverflow.
func (d *Dynamic[C]) Append(v C) int32 {
	i := d.n.Add(1) - 1
	if int(i) >= len(d.data) {
		panic(fmt.Errorf("%w: index %d capacity %d", ErrAppendOverflow, i, len(d.data)))
	}
	d.data[i] = v
	return i
}

// Lookup returns child i. On the sequential lane a lookup past the logical
// length grows it to i+1 as a side effect, leaving the covered slots
// zero-valued (the single trusted writer addresses slots into existence);
// growing past capacity panics with ErrAppendOverflow. On the parallel lane
// the lookup is read-only and indices beyond the length return nil.
func (d *Dynamic[C]) Lookup(ec sparsegrid.Exec, i int32) *C {
	if i < 0 {
		return nil
	}
	if ec.Lane == sparsegrid.LaneSequential {
		if int(i) >= len(d.data) {
			panic(fmt.Errorf("%w: index %d capacity %d", ErrAppendOverflow, i, len(d.data)))
		}
		if i >= d.n.Load() {
			d.n.Store(i + 1)
		}
		return &d.data[i]
	}
	if i >= d.n.Load() {
		return nil
	}
	return &d.data[i]
}

// Activate is a no-op: slots enter through Append, or through the
// sequential-lane Lookup side effect.
func (d *Dynamic[C]) Activate(sparsegrid.Exec, int32, sparsegrid.Coordinate) {}

// Clear resets the logical length to zero. The backing block is not
// zero-filled; the owning arena's recycle pass does that between
// generations.
func (d *Dynamic[C]) Clear() {
	d.n.Store(0)
}

func (d *Dynamic[C]) Len() int32 { return d.n.Load() }

func (d *Dynamic[C]) Cap() int32 { return int32(len(d.data)) }

// HasNull is false: every slot below the logical length holds a value, and
// indices beyond it are out of range rather than unactivated.
func (d *Dynamic[C]) HasNull() bool { return false }

package arena

import (
	"errors"
	"sync/atomic"
)

// MaxAxes is the maximum number of logical axes a tree can address.
// Every coordinate carries a position for all of them; unused axes stay 0.
const MaxAxes = 4

// KindID is the dense integer id of a declared node kind. Ids are assigned
// once per process by the registration table, in declaration order.
type KindID int32

// Coordinate names a node's position on every logical axis. It is produced
// by traversal logic and read-only afterwards.
type Coordinate [MaxAxes]int32

// Meta is the per-allocation record kept in the resident and recycle pools.
// It is pointer-free by construction so the pools can live off-heap; the
// child itself is addressed by Slot, an index into the arena's data pool.
type Meta struct {
	// Coord is the coordinate the child was activated at.
	Coord Coordinate
	// Slot is the data-pool index of the child.
	Slot uint64

	active uint32
}

// MarkActive flags the allocation as live in the current generation.
func (m *Meta) MarkActive() {
	atomic.StoreUint32(&m.active, 1)
}

// Deactivate flags the allocation as garbage for the next recycle pass.
// The allocator never calls this itself; traversal code does, between
// generations.
func (m *Meta) Deactivate() {
	atomic.StoreUint32(&m.active, 0)
}

// Active reports whether the allocation is live.
func (m *Meta) Active() bool {
	return atomic.LoadUint32(&m.active) != 0
}

// Stat is a point-in-time occupancy snapshot of one arena.
type Stat struct {
	Kind     KindID
	Capacity uint64
	Resident uint64
	Recycled uint64
}

var (
	// ErrCapacityExhausted is the fatal raised when a slot claim would
	// exceed the arena capacity. There is no resize and no backpressure.
	ErrCapacityExhausted = errors.New("arena: capacity exhausted")
	// ErrPoolState is the fatal raised when a pool is observed nil or
	// overflowed at an entry point that assumes it is populated.
	ErrPoolState = errors.New("arena: invalid pool state")
	// ErrChildSize is the fatal raised when the child storage size is not a
	// positive multiple of the zero-fill word.
	ErrChildSize = errors.New("arena: invalid child storage size")
	// ErrBudget is the fatal raised when the pools cannot be obtained
	// within the memory budget at construction.
	ErrBudget = errors.New("arena: pool budget unavailable")
)

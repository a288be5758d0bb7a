package sparsegrid

import (
	"fmt"
	"sync/atomic"
)

// Lane identifies the execution context a traversal runs under. The storage
// is one physical structure; the lane only selects how contended operations
// synchronize (pointer activation takes its spin lock on the parallel lane
// and skips it on the sequential one).
type Lane int

const (
	// LaneSequential is the single-goroutine setup and teardown context.
	LaneSequential Lane = iota

	// LaneParallel is the data-parallel traversal context.
	LaneParallel
)

func (l Lane) String() string {
	switch l {
	case LaneSequential:
		return "sequential"
	case LaneParallel:
		return "parallel"
	default:
		return fmt.Sprintf("lane(%d)", int(l))
	}
}

// Exec carries the registry and lane a traversal executes under. Node
// operations take it explicitly instead of consulting ambient state.
type Exec struct {
	Registry *Registry
	Lane     Lane
}

var processRegistry atomic.Pointer[Registry]

// Initialize constructs the process-wide registry serving every kind
// declared so far. It must be called exactly once, after all DeclareKind
// calls; a second call is fatal.
func Initialize(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	if !processRegistry.CompareAndSwap(nil, r) {
		panic(ErrAlreadyInitialized)
	}
	return r
}

// Instance returns the execution context for lane over the process-wide
// registry. Fatal if Initialize has not run.
func Instance(lane Lane) Exec {
	r := processRegistry.Load()
	if r == nil {
		panic(ErrNotInitialized)
	}
	return Exec{Registry: r, Lane: lane}
}

// Host returns the sequential-lane execution context.
func Host() Exec {
	return Instance(LaneSequential)
}

// Grid returns the parallel-lane execution context.
func Grid() Exec {
	return Instance(LaneParallel)
}

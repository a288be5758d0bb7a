package sparsegrid

import (
	"sync"

	"github.com/hupe1980/sparsegrid/arena"
)

// KindID is the dense integer id of a declared node kind.
type KindID = arena.KindID

// Coordinate re-exports the arena coordinate record for convenience.
type Coordinate = arena.Coordinate

type kindSpec struct {
	name     string
	budget   int64
	dataPool bool
	build    func(r *Registry) managerHandle
}

// kindTable is the process-wide registration table assigning a dense id to
// every declared node kind. Declaration happens at setup time, before any
// registry exists; the table is the explicit replacement for a compile-time
// type-to-id mapping.
var kindTable struct {
	mu    sync.Mutex
	specs []kindSpec
}

// KindOption configures one declared node kind.
type KindOption func(*kindSpec)

// WithKindBudget sets the memory budget of the kind's arena.
// Defaults to arena.DefaultBudget.
func WithKindBudget(bytes int64) KindOption {
	return func(s *kindSpec) {
		s.budget = bytes
	}
}

// WithoutChildStorage declares a kind that never materializes children
// lazily; its arena keeps metadata only and AllocateNode on it is fatal.
func WithoutChildStorage() KindOption {
	return func(s *kindSpec) {
		s.dataPool = false
	}
}

// DeclareKind registers a node kind whose arena hands out children of type
// C, assigning it the next dense kind id. init, if non-nil, runs on every
// freshly claimed slot (in-place default construction of the child).
//
// Kinds must be declared before the registry that will serve them is
// constructed; accessing an undeclared kind through a registry is fatal.
func DeclareKind[C any](name string, init func(*C), opts ...KindOption) KindID {
	spec := kindSpec{
		name:     name,
		dataPool: true,
	}
	for _, opt := range opts {
		opt(&spec)
	}

	kindTable.mu.Lock()
	defer kindTable.mu.Unlock()

	id := KindID(len(kindTable.specs))
	budget := spec.budget
	dataPool := spec.dataPool
	spec.build = func(r *Registry) managerHandle {
		aopts := []arena.Option{
			arena.WithController(r.ctrl),
			arena.WithLogger(r.logger.Logger),
			arena.WithClearWorkers(r.clearWorkers),
		}
		if budget > 0 {
			aopts = append(aopts, arena.WithBudget(budget))
		}
		if !dataPool {
			aopts = append(aopts, arena.WithoutDataPool())
		}
		return &Manager[C]{arena: arena.New[C](id, init, aopts...)}
	}
	kindTable.specs = append(kindTable.specs, spec)
	return id
}

func declaredKinds() []kindSpec {
	kindTable.mu.Lock()
	defer kindTable.mu.Unlock()
	return kindTable.specs[:len(kindTable.specs):len(kindTable.specs)]
}

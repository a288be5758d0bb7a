package sparsegrid

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sparsegrid/arena"
	"github.com/hupe1980/sparsegrid/resource"
)

// Registry maps every declared node kind to the Manager owning its arena.
// It is read-mostly: after construction the only mutation is the lazy
// first-use population of an individual kind's slot.
type Registry struct {
	logger       *Logger
	metrics      MetricsCollector
	ctrl         *resource.Controller
	clearWorkers int

	kinds []kindSpec
	slots []registrySlot
}

type registrySlot struct {
	mu sync.Mutex
	v  atomic.Value // managerHandle, at most one concrete type per slot
}

// NewRegistry constructs a registry serving every kind declared so far.
// Most programs use the process-wide singleton via Initialize instead;
// NewRegistry exists for embedding and tests.
func NewRegistry(opts ...Option) *Registry {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	kinds := declaredKinds()
	r := &Registry{
		logger:       o.logger,
		metrics:      o.metrics,
		ctrl:         o.ctrl,
		clearWorkers: o.clearWorkers,
		kinds:        kinds,
		slots:        make([]registrySlot, len(kinds)),
	}

	r.logger.LogInitialize(context.Background(), len(kinds))
	return r
}

// Get returns the Manager for kind, building it on first use. The child
// type C must match the type the kind was declared for; a mismatch or an
// undeclared kind is fatal.
func Get[C any](r *Registry, kind KindID) *Manager[C] {
	if r == nil {
		panic(ErrNotInitialized)
	}
	if kind < 0 || int(kind) >= len(r.slots) {
		panic(fmt.Errorf("%w: kind %d of %d", ErrKindOutOfRange, kind, len(r.slots)))
	}

	s := &r.slots[kind]
	if v := s.v.Load(); v != nil {
		return assertManager[C](v, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v := s.v.Load(); v != nil {
		return assertManager[C](v, kind)
	}

	h := r.kinds[kind].build(r)
	s.v.Store(h)
	r.metrics.RecordArenaConstruct(kind, h.stat().Capacity)
	return assertManager[C](h, kind)
}

func assertManager[C any](v any, kind KindID) *Manager[C] {
	m, ok := v.(*Manager[C])
	if !ok {
		panic(fmt.Errorf("%w: kind %d", ErrKindMismatch, kind))
	}
	return m
}

// AllocatorFor returns the arena for kind, building its Manager on first
// use. This is the sole way generated traversal code obtains an allocator.
func AllocatorFor[C any](r *Registry, kind KindID) *arena.Arena[C] {
	return Get[C](r, kind).Allocator()
}

// AllocateNode claims child storage for kind at coord through the kind's
// arena. See arena.Arena.AllocateNode for the distinctness guarantee.
func AllocateNode[C any](ec Exec, kind KindID, coord Coordinate) *C {
	return AllocatorFor[C](ec.Registry, kind).AllocateNode(coord)
}

// KindName returns the name a kind was declared under.
func (r *Registry) KindName(kind KindID) string {
	if kind < 0 || int(kind) >= len(r.kinds) {
		panic(fmt.Errorf("%w: kind %d of %d", ErrKindOutOfRange, kind, len(r.kinds)))
	}
	return r.kinds[kind].name
}

// Stats returns occupancy snapshots for every populated kind, in kind-id
// order. Unpopulated kinds are skipped: their arenas do not exist yet.
func (r *Registry) Stats() []arena.Stat {
	stats := make([]arena.Stat, 0, len(r.slots))
	for i := range r.slots {
		h, _ := r.slots[i].v.Load().(managerHandle)
		if h == nil {
			continue
		}
		stats = append(stats, h.stat())
	}
	return stats
}

// Clear runs the collective recycle pass over every populated arena. It is
// invoked by an external scheduler at generation boundaries, never during
// traversal. Concurrent passes are bounded by the controller's
// collective-pass slots.
func (r *Registry) Clear(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range r.slots {
		h, _ := r.slots[i].v.Load().(managerHandle)
		if h == nil {
			continue
		}
		kind := KindID(i)
		g.Go(func() error {
			if err := r.ctrl.AcquirePass(gctx); err != nil {
				r.logger.LogClear(gctx, kind, 0, err)
				return err
			}
			defer r.ctrl.ReleasePass()

			start := time.Now()
			before := h.stat().Recycled
			h.clear(gctx)
			recycled := h.stat().Recycled - before
			r.metrics.RecordClear(kind, recycled, time.Since(start))
			r.logger.LogClear(gctx, kind, recycled, nil)
			return nil
		})
	}
	return g.Wait()
}

// Close releases every populated arena's pools. For embedded registries and
// tests; the process-wide singleton lives for the process.
func (r *Registry) Close() {
	for i := range r.slots {
		h, _ := r.slots[i].v.Load().(managerHandle)
		if h == nil {
			continue
		}
		h.close()
	}
}

package arena

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sparsegrid/internal/mem"
	"github.com/hupe1980/sparsegrid/internal/mmap"
	"github.com/hupe1980/sparsegrid/resource"
)

// DefaultBudget is the default memory budget of one arena (8 GiB). Capacity
// is the budget divided by the per-child storage size, so callers with many
// kinds or small machines should lower it via WithBudget.
const DefaultBudget int64 = 1 << 33

type config struct {
	budget   int64
	dataPool bool
	ctrl     *resource.Controller
	logger   *slog.Logger
	workers  int
}

// Option is a configuration option for an Arena.
type Option func(*config)

// WithBudget sets the memory budget the capacity is computed from.
func WithBudget(bytes int64) Option {
	return func(c *config) {
		if bytes > 0 {
			c.budget = bytes
		}
	}
}

// WithoutDataPool builds an arena that keeps metadata only. Kinds whose
// children all coexist from construction never materialize children through
// the arena; calling AllocateNode on such an arena is fatal.
func WithoutDataPool() Option {
	return func(c *config) {
		c.dataPool = false
	}
}

// WithController sets the resource controller the pool memory is reserved
// from. A nil controller only tracks.
func WithController(ctrl *resource.Controller) Option {
	return func(c *config) {
		c.ctrl = ctrl
	}
}

// WithLogger sets the logger used for construction and recycle-pass events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClearWorkers bounds the parallelism of the recycle pass.
// Defaults to GOMAXPROCS.
func WithClearWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// Arena is the fixed-capacity node allocator for one node kind. C is the
// kind's child type: the storage AllocateNode hands out, one slot per call.
type Arena[C any] struct {
	kind     KindID
	capacity uint64
	init     func(*C)

	resident []Meta
	recycle  []Meta
	data     []C // nil when built WithoutDataPool

	residentTail atomic.Uint64
	recycleTail  atomic.Uint64

	mappings []*mmap.Mapping
	reserved int64
	ctrl     *resource.Controller
	log      *slog.Logger
	workers  int
}

// New constructs the arena for one node kind. init, if non-nil, is run on
// every freshly claimed slot after zeroing (in-place default construction).
//
// Construction is all-or-nothing: failure to obtain any of the three pools
// within the budget is fatal. There is no fallback allocation strategy.
func New[C any](kind KindID, init func(*C), opts ...Option) *Arena[C] {
	cfg := config{
		budget:   DefaultBudget,
		dataPool: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero C
	childSize := int64(unsafe.Sizeof(zero))
	metaSize := int64(unsafe.Sizeof(Meta{}))

	perSlot := metaSize
	if cfg.dataPool {
		// The recycle pass zero-fills at word granularity; reject child
		// layouts it cannot cover exactly.
		if childSize <= 0 || childSize%mem.WordSize != 0 {
			panic(fmt.Errorf("%w: kind %d child size %d is not a positive multiple of %d",
				ErrChildSize, kind, childSize, mem.WordSize))
		}
		perSlot = childSize
	}

	capacity := uint64(cfg.budget / perSlot)
	if capacity == 0 {
		panic(fmt.Errorf("%w: kind %d budget %d below one slot of %d bytes",
			ErrBudget, kind, cfg.budget, perSlot))
	}

	a := &Arena[C]{
		kind:     kind,
		capacity: capacity,
		init:     init,
		ctrl:     cfg.ctrl,
		log:      cfg.logger,
		workers:  cfg.workers,
	}

	reserve := 2 * capacity * uint64(metaSize)
	if cfg.dataPool {
		reserve += capacity * uint64(childSize)
	}
	if reserve > math.MaxInt64 || !a.ctrl.TryAcquireMemory(int64(reserve)) {
		panic(fmt.Errorf("%w: kind %d needs %d bytes of pool memory", ErrBudget, kind, reserve))
	}
	a.reserved = int64(reserve)

	a.resident = a.mapMetaPool(capacity)
	a.recycle = a.mapMetaPool(capacity)
	if cfg.dataPool {
		if mem.HasPointers[C]() {
			// The GC must see pointers held by children, so the data pool
			// stays on the heap for pointer-carrying child types.
			a.data = make([]C, capacity)
		} else {
			a.data = a.mapDataPool(capacity, childSize)
		}
	}

	if a.log != nil {
		a.log.Info("arena constructed",
			"kind", kind,
			"capacity", capacity,
			"budget", cfg.budget,
			"child_size", childSize,
			"data_pool", cfg.dataPool,
		)
	}

	return a
}

func (a *Arena[C]) mapMetaPool(n uint64) []Meta {
	m := a.mapPool(poolBytes(a.kind, n, unsafe.Sizeof(Meta{})))
	b := m.Bytes()
	return unsafe.Slice((*Meta)(unsafe.Pointer(&b[0])), n)
}

func (a *Arena[C]) mapDataPool(n uint64, childSize int64) []C {
	m := a.mapPool(poolBytes(a.kind, n, uintptr(childSize)))
	_ = m.Advise(mmap.AccessRandom)
	b := m.Bytes()
	return unsafe.Slice((*C)(unsafe.Pointer(&b[0])), n)
}

func (a *Arena[C]) mapPool(size int) *mmap.Mapping {
	m, err := mmap.MapAnon(size)
	if err != nil {
		a.Close()
		panic(fmt.Errorf("%w: kind %d mapping %d bytes: %v", ErrBudget, a.kind, size, err))
	}
	a.mappings = append(a.mappings, m)
	return m
}

func poolBytes(kind KindID, n uint64, size uintptr) int {
	total := n * uint64(size)
	if total/uint64(size) != n || total > uint64(math.MaxInt) {
		panic(fmt.Errorf("%w: kind %d pool of %d slots overflows", ErrBudget, kind, n))
	}
	return int(total)
}

// AllocateNode atomically claims the next resident slot, records its
// metadata as active at coord, default-constructs the child in place and
// returns its address.
//
// Under any number of concurrent callers every call returns a distinct,
// never-simultaneously-reused slot. A claim beyond capacity is fatal.
func (a *Arena[C]) AllocateNode(coord Coordinate) *C {
	if a == nil || a.resident == nil {
		panic(fmt.Errorf("%w: resident pool not populated", ErrPoolState))
	}
	if a.data == nil {
		panic(fmt.Errorf("%w: kind %d has no data pool", ErrPoolState, a.kind))
	}

	slot := a.residentTail.Add(1) - 1
	if slot >= a.capacity {
		panic(fmt.Errorf("%w: kind %d slot %d of %d", ErrCapacityExhausted, a.kind, slot, a.capacity))
	}

	m := &a.resident[slot]
	m.Coord = coord
	m.Slot = slot
	m.MarkActive()

	child := &a.data[slot]
	var zero C
	*child = zero
	if a.init != nil {
		a.init(child)
	}
	return child
}

// Clear is the collective recycle pass run at a generation boundary. Every
// resident slot whose metadata reads inactive is zero-filled and appended to
// the recycle pool; the resident counter then rewinds to zero. The recycle
// pool keeps growing for the lifetime of the arena.
//
// Clear must not run concurrently with AllocateNode. The scan itself is
// parallel, one bounded worker group per pass.
func (a *Arena[C]) Clear(ctx context.Context) {
	if a == nil || a.resident == nil || a.recycle == nil {
		panic(fmt.Errorf("%w: pools not populated", ErrPoolState))
	}

	tail := min(a.residentTail.Load(), a.capacity)
	before := a.recycleTail.Load()

	workers := a.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if tail > 0 {
		stride := (tail + uint64(workers) - 1) / uint64(workers)

		g, _ := errgroup.WithContext(ctx)
		for lo := uint64(0); lo < tail; lo += stride {
			lo, hi := lo, min(lo+stride, tail)
			g.Go(func() error {
				var zero C
				for s := lo; s < hi; s++ {
					m := &a.resident[s]
					if m.Active() {
						continue
					}
					if a.data != nil {
						a.data[m.Slot] = zero
					}
					idx := a.recycleTail.Add(1) - 1
					if idx >= a.capacity {
						panic(fmt.Errorf("%w: kind %d recycle pool overflow at %d", ErrPoolState, a.kind, idx))
					}
					a.recycle[idx] = *m
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	a.residentTail.Store(0)

	if a.log != nil {
		a.log.Debug("recycle pass",
			"kind", a.kind,
			"scanned", tail,
			"recycled", a.recycleTail.Load()-before,
		)
	}
}

// Stat returns a read-only occupancy snapshot. It never mutates state and is
// safe to call concurrently with allocation.
func (a *Arena[C]) Stat() Stat {
	return Stat{
		Kind:     a.kind,
		Capacity: a.capacity,
		Resident: min(a.residentTail.Load(), a.capacity),
		Recycled: min(a.recycleTail.Load(), a.capacity),
	}
}

// ActiveSet returns the bitmap of data-pool slots whose metadata reads
// active. Like Stat it is a snapshot for diagnostics, not a mutation.
func (a *Arena[C]) ActiveSet() *roaring64.Bitmap {
	bm := roaring64.New()
	tail := min(a.residentTail.Load(), a.capacity)
	for s := uint64(0); s < tail; s++ {
		if a.resident[s].Active() {
			bm.Add(a.resident[s].Slot)
		}
	}
	return bm
}

// Meta returns the resident metadata record for a claimed slot. Traversal
// code uses it to deactivate allocations between generations.
func (a *Arena[C]) Meta(slot uint64) *Meta {
	if a == nil || a.resident == nil || slot >= a.capacity {
		panic(fmt.Errorf("%w: meta slot %d", ErrPoolState, slot))
	}
	return &a.resident[slot]
}

// Kind returns the node kind this arena allocates for.
func (a *Arena[C]) Kind() KindID {
	return a.kind
}

// Capacity returns the fixed slot capacity.
func (a *Arena[C]) Capacity() uint64 {
	return a.capacity
}

// Resident returns the number of slots claimed in the current generation.
func (a *Arena[C]) Resident() uint64 {
	return min(a.residentTail.Load(), a.capacity)
}

// Close unmaps the pools and releases the reserved budget. It must not be
// called concurrently with any other arena operation; the arena cannot be
// reused afterwards.
func (a *Arena[C]) Close() {
	for _, m := range a.mappings {
		_ = m.Close()
	}
	a.mappings = nil
	a.resident = nil
	a.recycle = nil
	a.data = nil
	if a.reserved > 0 {
		a.ctrl.ReleaseMemory(a.reserved)
		a.reserved = 0
	}
}

func (a *Arena[C]) String() string {
	st := a.Stat()
	return fmt.Sprintf("Arena{kind: %d, capacity: %d, resident: %d, recycled: %d}",
		st.Kind, st.Capacity, st.Resident, st.Recycled)
}

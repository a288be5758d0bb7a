package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/hupe1980/sparsegrid/resource"
)

// block is a pointer-free child type; its arena pools live off-heap.
type block struct {
	vals [4]int32
}

// boxed carries a Go pointer; its data pool must stay on the heap.
type boxed struct {
	next *boxed
	pad  int64
}

const blockSize = int64(unsafe.Sizeof(block{}))

func newBlockArena(t testing.TB, capacity int64) *Arena[block] {
	t.Helper()
	a := New[block](1, nil, WithBudget(capacity*blockSize))
	t.Cleanup(a.Close)
	return a
}

func expectPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", want)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("panic %v, want %v", r, want)
		}
	}()
	fn()
}

func TestArena_New(t *testing.T) {
	t.Run("capacity from budget", func(t *testing.T) {
		a := newBlockArena(t, 64)
		if a.Capacity() != 64 {
			t.Errorf("expected capacity=64, got %d", a.Capacity())
		}
		if a.data == nil {
			t.Error("data pool should be populated")
		}
	})

	t.Run("without data pool", func(t *testing.T) {
		a := New[block](2, nil, WithBudget(1<<16), WithoutDataPool())
		defer a.Close()

		if a.data != nil {
			t.Error("data pool should be nil")
		}
		metaSize := int64(unsafe.Sizeof(Meta{}))
		if a.Capacity() != uint64((1<<16)/metaSize) {
			t.Errorf("capacity should derive from metadata size, got %d", a.Capacity())
		}
	})

	t.Run("heap pool for pointer-carrying children", func(t *testing.T) {
		a := New[boxed](3, nil, WithBudget(1<<12))
		defer a.Close()

		p := a.AllocateNode(Coordinate{})
		if p == nil {
			t.Fatal("allocation failed")
		}
	})

	t.Run("child size not word multiple", func(t *testing.T) {
		expectPanic(t, ErrChildSize, func() {
			New[byte](4, nil, WithBudget(1<<12))
		})
	})

	t.Run("budget below one slot", func(t *testing.T) {
		expectPanic(t, ErrBudget, func() {
			New[block](5, nil, WithBudget(int64(blockSize)-1))
		})
	})

	t.Run("controller shortfall is fatal", func(t *testing.T) {
		ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 16})
		expectPanic(t, ErrBudget, func() {
			New[block](6, nil, WithBudget(1<<12), WithController(ctrl))
		})
	})
}

func TestArena_AllocateNode(t *testing.T) {
	a := newBlockArena(t, 8)

	coord := Coordinate{1, 2, 3, 4}
	p := a.AllocateNode(coord)
	if p == nil {
		t.Fatal("expected non-nil child")
	}

	m := a.Meta(0)
	if !m.Active() {
		t.Error("claimed slot should be active")
	}
	if m.Coord != coord {
		t.Errorf("expected coord %v, got %v", coord, m.Coord)
	}
	if m.Slot != 0 {
		t.Errorf("expected slot 0, got %d", m.Slot)
	}

	st := a.Stat()
	if st.Resident != 1 {
		t.Errorf("expected resident=1, got %d", st.Resident)
	}
}

func TestArena_AllocateNode_Init(t *testing.T) {
	a := New[block](1, func(b *block) { b.vals[0] = 7 }, WithBudget(8*blockSize))
	defer a.Close()

	p := a.AllocateNode(Coordinate{})
	if p.vals[0] != 7 {
		t.Errorf("init should run on the claimed slot, got %d", p.vals[0])
	}
}

func TestArena_AllocateNode_NoDataPool(t *testing.T) {
	a := New[block](2, nil, WithBudget(1<<12), WithoutDataPool())
	defer a.Close()

	expectPanic(t, ErrPoolState, func() {
		a.AllocateNode(Coordinate{})
	})
}

func TestArena_CapacityExhausted(t *testing.T) {
	a := newBlockArena(t, 4)

	for i := 0; i < 4; i++ {
		a.AllocateNode(Coordinate{int32(i)})
	}
	expectPanic(t, ErrCapacityExhausted, func() {
		a.AllocateNode(Coordinate{4})
	})
}

func TestArena_Concurrent(t *testing.T) {
	// 8 workers, 128 allocations each, capacity exactly 1024.
	const workers = 8
	const perWorker = 128

	a := newBlockArena(t, workers*perWorker)

	results := make([][]*block, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			ptrs := make([]*block, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				ptrs = append(ptrs, a.AllocateNode(Coordinate{int32(w), int32(j)}))
			}
			results[w] = ptrs
		}(w)
	}
	wg.Wait()

	seen := make(map[*block]struct{}, workers*perWorker)
	for _, ptrs := range results {
		for _, p := range ptrs {
			if p == nil {
				t.Fatal("nil child pointer")
			}
			if _, dup := seen[p]; dup {
				t.Fatalf("slot handed out twice: %p", p)
			}
			seen[p] = struct{}{}
		}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct slots, got %d", workers*perWorker, len(seen))
	}

	if st := a.Stat(); st.Resident != workers*perWorker {
		t.Errorf("expected resident=%d, got %d", workers*perWorker, st.Resident)
	}

	expectPanic(t, ErrCapacityExhausted, func() {
		a.AllocateNode(Coordinate{})
	})
}

func TestArena_Clear(t *testing.T) {
	a := newBlockArena(t, 16)

	ptrs := make([]*block, 8)
	for i := range ptrs {
		ptrs[i] = a.AllocateNode(Coordinate{int32(i)})
		ptrs[i].vals[0] = int32(i) + 100
	}

	// Deactivate slots 0, 2, 4 between generations; the allocator itself
	// never clears the flag.
	for _, s := range []uint64{0, 2, 4} {
		a.Meta(s).Deactivate()
	}

	a.Clear(context.Background())

	st := a.Stat()
	if st.Resident != 0 {
		t.Errorf("expected resident=0 after clear, got %d", st.Resident)
	}
	if st.Recycled != 3 {
		t.Errorf("expected recycled=3, got %d", st.Recycled)
	}

	for _, s := range []int{0, 2, 4} {
		if ptrs[s].vals[0] != 0 {
			t.Errorf("slot %d should read zero after recycling, got %d", s, ptrs[s].vals[0])
		}
	}
	// Slots that stayed active are untouched.
	for _, s := range []int{1, 3, 5, 6, 7} {
		if ptrs[s].vals[0] != int32(s)+100 {
			t.Errorf("active slot %d was clobbered", s)
		}
	}
}

func TestArena_Clear_RecyclePoolGrows(t *testing.T) {
	a := newBlockArena(t, 16)
	ctx := context.Background()

	for gen := 0; gen < 3; gen++ {
		for i := 0; i < 2; i++ {
			a.AllocateNode(Coordinate{int32(gen), int32(i)})
		}
		a.Meta(0).Deactivate()
		a.Meta(1).Deactivate()
		a.Clear(ctx)
	}

	if st := a.Stat(); st.Recycled != 6 {
		t.Errorf("recycle pool should accumulate across generations, got %d", st.Recycled)
	}
}

func TestArena_Clear_Empty(t *testing.T) {
	a := newBlockArena(t, 4)
	a.Clear(context.Background())

	st := a.Stat()
	if st.Resident != 0 || st.Recycled != 0 {
		t.Errorf("unexpected counters after empty clear: %+v", st)
	}
}

func TestArena_Stat_IsSnapshot(t *testing.T) {
	a := newBlockArena(t, 8)

	before := a.Stat()
	again := a.Stat()
	if before != again {
		t.Error("Stat must not mutate state")
	}

	a.AllocateNode(Coordinate{})
	after := a.Stat()
	if after.Resident != before.Resident+1 {
		t.Errorf("expected resident to advance by 1, got %d", after.Resident)
	}
	if after.Kind != 1 || after.Capacity != 8 {
		t.Errorf("unexpected snapshot: %+v", after)
	}
}

func TestArena_ActiveSet(t *testing.T) {
	a := newBlockArena(t, 8)

	for i := 0; i < 4; i++ {
		a.AllocateNode(Coordinate{int32(i)})
	}
	a.Meta(1).Deactivate()
	a.Meta(3).Deactivate()

	bm := a.ActiveSet()
	if bm.GetCardinality() != 2 {
		t.Fatalf("expected 2 active slots, got %d", bm.GetCardinality())
	}
	if !bm.Contains(0) || !bm.Contains(2) {
		t.Errorf("wrong active slots: %v", bm.ToArray())
	}
}

func TestArena_String(t *testing.T) {
	a := newBlockArena(t, 8)
	a.AllocateNode(Coordinate{})

	want := fmt.Sprintf("Arena{kind: %d, capacity: %d, resident: %d, recycled: %d}", 1, 8, 1, 0)
	if got := a.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func BenchmarkArena_AllocateNode(b *testing.B) {
	a := newBlockArena(b, int64(b.N)+1)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = a.AllocateNode(Coordinate{int32(i)})
	}
}

func BenchmarkArena_AllocateNode_Parallel(b *testing.B) {
	a := newBlockArena(b, int64(b.N)+128)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = a.AllocateNode(Coordinate{})
		}
	})
}

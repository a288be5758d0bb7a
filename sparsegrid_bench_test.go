package sparsegrid_test

import (
	"testing"

	"github.com/hupe1980/sparsegrid"
)

func BenchmarkGet(b *testing.B) {
	r := sparsegrid.NewRegistry()
	defer r.Close()

	sparsegrid.Get[cell](r, cellKind)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sparsegrid.Get[cell](r, cellKind)
	}
}

func BenchmarkAllocateNode(b *testing.B) {
	r := sparsegrid.NewRegistry()
	defer r.Close()

	ec := sparsegrid.Exec{Registry: r, Lane: sparsegrid.LaneParallel}
	alloc := sparsegrid.AllocatorFor[cell](r, cellKind)
	capacity := int(alloc.Capacity())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%capacity == 0 {
			b.StopTimer()
			for s := uint64(0); s < alloc.Stat().Resident; s++ {
				alloc.Meta(s).Deactivate()
			}
			alloc.Clear(b.Context())
			b.StartTimer()
		}
		_ = sparsegrid.AllocateNode[cell](ec, cellKind, sparsegrid.Coordinate{int32(i)})
	}
}

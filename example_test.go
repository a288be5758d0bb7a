package sparsegrid_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/sparsegrid"
)

// Example_declareAndAllocate demonstrates declaring a node kind and claiming
// child storage from its arena.
func Example_declareAndAllocate() {
	r := sparsegrid.NewRegistry()
	defer r.Close()

	ec := sparsegrid.Exec{Registry: r, Lane: sparsegrid.LaneSequential}

	c := sparsegrid.AllocateNode[cell](ec, cellKind, sparsegrid.Coordinate{4, 2})
	c.vals[0] = 7

	fmt.Printf("Resident: %d\n", sparsegrid.AllocatorFor[cell](r, cellKind).Stat().Resident)
	// Output: Resident: 1
}

// Example_recyclePass demonstrates the collective recycle pass at a
// generation boundary.
func Example_recyclePass() {
	r := sparsegrid.NewRegistry()
	defer r.Close()

	alloc := sparsegrid.AllocatorFor[cell](r, cellKind)
	for i := range int32(4) {
		alloc.AllocateNode(sparsegrid.Coordinate{i})
	}

	// Traversal code deactivates dead allocations between generations.
	alloc.Meta(1).Deactivate()
	alloc.Meta(3).Deactivate()

	if err := r.Clear(context.Background()); err != nil {
		log.Fatal(err)
	}

	st := alloc.Stat()
	fmt.Printf("Resident: %d, Recycled: %d\n", st.Resident, st.Recycled)
	// Output: Resident: 0, Recycled: 2
}

// Example_stats demonstrates per-kind occupancy snapshots.
func Example_stats() {
	r := sparsegrid.NewRegistry()
	defer r.Close()

	ec := sparsegrid.Exec{Registry: r, Lane: sparsegrid.LaneSequential}
	sparsegrid.AllocateNode[cell](ec, cellKind, sparsegrid.Coordinate{})

	for _, st := range r.Stats() {
		fmt.Printf("%s: %d resident\n", r.KindName(st.Kind), st.Resident)
	}
	// Output: cell: 1 resident
}

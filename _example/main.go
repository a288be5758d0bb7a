package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/sparsegrid"
	"github.com/hupe1980/sparsegrid/node"
	"github.com/hupe1980/sparsegrid/resource"
)

// tile is the leaf payload: an 8x8 block of cells.
type tile struct {
	cells [64]float32
}

var tileKind = sparsegrid.DeclareKind[tile]("tile", nil,
	sparsegrid.WithKindBudget(1<<28),
)

func main() {
	workers := 64
	perWorker := 16

	metrics := &sparsegrid.BasicMetricsCollector{}

	sparsegrid.Initialize(
		sparsegrid.WithLogger(sparsegrid.NewTextLogger(slog.LevelDebug)),
		sparsegrid.WithMetricsCollector(metrics),
		sparsegrid.WithController(resource.NewController(resource.Config{
			MemoryLimitBytes:     1 << 30,
			MaxCollectiveWorkers: 2,
		})),
	)

	fmt.Println("--- Activate ---")
	fmt.Println("Workers:", workers)
	fmt.Println("Pointers per worker:", perWorker)

	// A grid of pointer nodes, each guarding one lazily allocated tile.
	pointers := make([]*node.Pointer[tile], workers*perWorker)
	for i := range pointers {
		pointers[i] = node.NewPointer[tile](tileKind)
	}

	start := time.Now()

	ec := sparsegrid.Grid()
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range perWorker {
				i := w*perWorker + j
				pointers[i].Activate(ec, 0, sparsegrid.Coordinate{int32(w), int32(j)})
				t := pointers[i].Lookup(ec, 0)
				t.cells[0] = float32(i)
			}
		}()
	}
	wg.Wait()

	fmt.Printf("Seconds: %.4f\n\n", time.Since(start).Seconds())

	for _, st := range ec.Registry.Stats() {
		fmt.Printf("Kind: %s, Resident: %d/%d, Recycled: %d\n",
			ec.Registry.KindName(st.Kind), st.Resident, st.Capacity, st.Recycled)
	}

	// Generation boundary: keep every fourth tile, recycle the rest.
	alloc := sparsegrid.AllocatorFor[tile](ec.Registry, tileKind)
	resident := alloc.Stat().Resident
	for slot := uint64(0); slot < resident; slot++ {
		if slot%4 != 0 {
			alloc.Meta(slot).Deactivate()
		}
	}

	fmt.Println("\n--- Clear ---")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := ec.Registry.Clear(ctx); err != nil {
		log.Fatalf("Clear failed: %v", err)
	}

	for _, st := range ec.Registry.Stats() {
		fmt.Printf("Kind: %s, Resident: %d/%d, Recycled: %d\n",
			ec.Registry.KindName(st.Kind), st.Resident, st.Capacity, st.Recycled)
	}

	fmt.Println("\n--- Dump ---")

	var buf bytes.Buffer
	if err := ec.Registry.DumpStats(ctx, &buf); err != nil {
		log.Fatalf("DumpStats failed: %v", err)
	}
	fmt.Printf("Compressed dump: %d bytes\n", buf.Len())

	kindStats, err := sparsegrid.ReadStats(&buf)
	if err != nil {
		log.Fatalf("ReadStats failed: %v", err)
	}
	for _, ks := range kindStats {
		fmt.Printf("Kind: %s, Occupancy bitmap: %d bytes\n", ks.Name, len(ks.Occupancy))
	}

	stats := metrics.GetStats()
	fmt.Printf("\nArenas: %d, Clear passes: %d, Slots recycled: %d\n",
		stats.ArenasConstructed, stats.ClearPasses, stats.SlotsRecycled)
}

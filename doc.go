// Package sparsegrid provides the storage substrate beneath a compiled
// array/tensor language: arbitrarily nested sparse hierarchical arrays
// whose node storage is allocated safely from a single sequential caller
// and from massively parallel worker grids, without per-node OS locks.
//
// The building blocks are:
//
//   - A fixed-capacity arena allocator per node kind (package arena) with
//     atomic slot claiming and a generation-scoped recycle pass.
//   - A process-wide Registry mapping each declared node kind to the
//     Manager that owns its arena.
//   - Six node-kind variants (package node) sharing one lookup/activation
//     contract: root, dense, pointer, hashed, dynamic and indirect.
//
// # Quick Start
//
// Declare node kinds once at setup time, initialize the registry, then let
// generated traversal code activate children on demand:
//
//	blocks := sparsegrid.DeclareKind[node.Dense[float32]]("block",
//	    func(d *node.Dense[float32]) { d.Init(64) },
//	    sparsegrid.WithKindBudget(1<<30),
//	)
//
//	sparsegrid.Initialize()
//
//	ec := sparsegrid.Host() // sequential lane
//	ptr := node.NewPointer[node.Dense[float32]](blocks)
//	ptr.Activate(ec, 0, sparsegrid.Coordinate{4, 2})
//	block := ptr.Lookup(ec, 0)
//
// At a generation boundary an external scheduler deactivates dead
// allocations through their metadata records and runs the collective
// recycle pass:
//
//	_ = sparsegrid.Host().Registry.Clear(ctx)
//
// # Execution Lanes
//
// Every operation carries an explicit Exec context naming the execution
// lane. LaneSequential is the single trusted caller; LaneParallel is a grid
// of concurrently scheduled workers. Node kinds pick their activation
// protocol from the lane: pointer kinds serialize grid workers through a
// per-node spin lock, while the sequential lane takes the unlocked path.
//
// # Failure Model
//
// This layer sits in a performance-critical inner loop and has no recovery
// path: capacity exhaustion, double initialization, invalid pool state and
// bounded-append overflow all panic with a wrapped sentinel error. Size
// budgets generously up front.
package sparsegrid

// Package arena provides the fixed-capacity node allocator backing one node
// kind of a sparse hierarchical array.
//
// # Concurrency Model
//
// Arena supports any number of concurrent AllocateNode callers; the sole
// coordination point is an atomic fetch-and-add on the resident slot
// counter. Clear (the generation recycle pass) must NOT run concurrently
// with allocation: it is a collective operation invoked by the scheduler at
// generation boundaries, when no traversal is in flight.
//
// # Memory Management
//
// Capacity is computed once at construction from a fixed memory budget
// divided by the per-child storage size. The three pools (resident
// metadata, recycle metadata, child data) are obtained up front and never
// resized; there is no per-node free. Recycling happens only at generation
// boundaries: Clear zero-fills every inactive slot, appends its metadata to
// the recycle pool, and rewinds the resident counter. The recycle pool only
// grows for the lifetime of the arena.
//
// Pointer-free child types live in anonymous mappings outside the Go heap;
// child types carrying Go pointers fall back to a heap-backed pool so the
// garbage collector can see them.
package arena

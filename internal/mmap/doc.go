// Package mmap provides anonymous memory mappings for the arena pools.
//
// # Overview
//
// Arena pools are fixed-capacity and sized from a memory budget that can be
// far larger than what a generation actually touches. Anonymous mappings
// give the pools demand-paged backing: the address range is reserved up
// front, physical pages are committed only on first write, and none of it
// is scanned by the Go garbage collector.
//
// # Usage
//
//	m, err := mmap.MapAnon(poolBytes)
//	if err != nil { ... }
//	defer m.Close()
//
//	pool := m.Bytes()
//	m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE,
//     madvise(2) for access hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advise is a no-op)
//
// # Thread Safety
//
// Mapping is safe for concurrent read access. Close is idempotent and
// protected by an atomic flag, but callers must ensure no goroutine touches
// Bytes() after Close returns.
package mmap

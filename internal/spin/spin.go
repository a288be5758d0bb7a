// Package spin provides a single-word spin lock for short critical sections.
package spin

import (
	"runtime"
	"sync/atomic"
)

// Lock is a compare-and-swap spin lock: 0 is free, 1 is held.
// The zero value is an unlocked lock. It must not be copied after first use.
//
// Lock is intended for critical sections of a few instructions, such as a
// null-check-then-allocate. There is no timeout or deadlock detection; a
// holder that never unlocks stalls every waiter.
type Lock struct {
	state atomic.Uint32
}

// Lock spins until the lock is acquired.
func (l *Lock) Lock() {
	for !l.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

// TryLock acquires the lock without spinning.
func (l *Lock) TryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Unlock releases the lock unconditionally.
func (l *Lock) Unlock() {
	l.state.Store(0)
}

// Package concurrency implements ThreadSafe[T], a mutex+condition-variable
// guarded holder for the two kinds of state the tick loop shares with
// producers running on other goroutines: player snapshots and command
// queues. Grounded in original_source/src/ThreadSafe.h.
package concurrency

import (
	"sync"
	"time"
)

// ThreadSafe guards a value of type T behind a mutex paired with a
// condition variable, so a waiter can block until the value satisfies a
// predicate or a deadline passes.
type ThreadSafe[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	value T
}

// NewThreadSafe wraps initial in a ThreadSafe holder.
func NewThreadSafe[T any](initial T) *ThreadSafe[T] {
	ts := &ThreadSafe[T]{value: initial}
	ts.cond = sync.NewCond(&ts.mu)
	return ts
}

// Get takes a locked snapshot of the current value.
func (t *ThreadSafe[T]) Get() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Set replaces the value and wakes anyone waiting on it.
func (t *ThreadSafe[T]) Set(v T) {
	t.mu.Lock()
	t.value = v
	t.cond.Broadcast()
	t.mu.Unlock()
}

// Lock acquires the guard and returns a Proxy for reading and editing the
// value in place. The caller must call Proxy.Unlock, typically deferred,
// exactly once. Locking broadcasts to any waiter, mirroring the original
// wrapper's notify-on-every-lock behavior (a producer about to push a
// command wakes an interpreter that is blocked waiting for one).
func (t *ThreadSafe[T]) Lock() *Proxy[T] {
	t.mu.Lock()
	t.cond.Broadcast()
	return &Proxy[T]{ts: t}
}

// Proxy is a held lock on a ThreadSafe value.
type Proxy[T any] struct {
	ts *ThreadSafe[T]
}

func (p *Proxy[T]) Get() T  { return p.ts.value }
func (p *Proxy[T]) Set(v T) { p.ts.value = v }

// Unlock releases the guard.
func (p *Proxy[T]) Unlock() { p.ts.mu.Unlock() }

// WaitUntil blocks, with the guard held, until predicate(Get()) is true
// or deadline passes, re-checking whenever the value changes. Returns
// whether the predicate held when it returned.
func (p *Proxy[T]) WaitUntil(deadline time.Time, predicate func(T) bool) bool {
	for !predicate(p.ts.value) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return predicate(p.ts.value)
		}

		timer := time.AfterFunc(remaining, func() {
			p.ts.mu.Lock()
			p.ts.cond.Broadcast()
			p.ts.mu.Unlock()
		})
		p.ts.cond.Wait()
		timer.Stop()
	}
	return true
}

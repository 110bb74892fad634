// Package memo memoizes a Future-returning factory function per key, so
// concurrent callers asking for the same key in flight share the same
// underlying Promise instead of each triggering their own work.
//
// It generalizes the teacher's cache package (a plain, goroutine-safe
// string-keyed map) to store the *future.Promise[V] behind each in-flight or
// completed entry rather than arbitrary values, and adds the single operation that
// matters for a future cache: get-or-start.
package memo

import (
	"sync"

	"github.com/br-lewis/continuum/future"
)

// Memo memoizes the result of calling a factory at most once per key. K must
// be comparable, matching Go map key requirements; this mirrors the
// teacher's choice of a plain map under a single RWMutex rather than a
// sharded or LRU-bounded cache — callers needing eviction wrap Memo rather
// than Memo growing options for it.
type Memo[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*future.Promise[V]
}

// New constructs an empty Memo.
func New[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{entries: make(map[K]*future.Promise[V])}
}

// Get returns a future over the cached entry for key, and whether one
// existed. As with the rest of the engine, a Future is a single-consumer
// handle: callers that both want to read the same memoized result should
// coordinate rather than each call Then/OnError on independently-obtained
// handles from Get.
func (m *Memo[K, V]) Get(key K) (*future.Future[V], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return p.Future(), true
}

// GetOrCreate returns a future over the entry already memoized for key, or
// calls create to start one, stores it, and returns that instead. create is
// invoked at most once per key: if two goroutines race GetOrCreate for a
// key that isn't yet memoized, the second one to acquire the lock observes
// the first's entry and uses it instead of calling create again.
//
// create receives a *future.Promise[V] to fulfil (synchronously or later,
// from any goroutine) rather than returning a value directly, so it can
// kick off asynchronous work — run a command with bind.Output, arm a
// bind.ZkClient watch, whatever — without blocking GetOrCreate itself.
func (m *Memo[K, V]) GetOrCreate(key K, create func(p *future.Promise[V])) *future.Future[V] {
	m.mu.Lock()
	p, ok := m.entries[key]
	if !ok {
		p = future.NewPromise[V]()
		m.entries[key] = p
		m.mu.Unlock()
		create(p)
		return p.Future()
	}
	m.mu.Unlock()
	return p.Future()
}

// Delete detaches and removes a key's memoized entry, injecting
// BrokenPromise if it was still unfulfilled and had an outstanding future
// reference. It does not affect futures already handed out for that key
// beyond that; it only stops new callers from observing the entry.
func (m *Memo[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.entries[key]; ok {
		delete(m.entries, key)
		p.Detach()
	}
}

// Purge detaches and removes every memoized entry, mirroring the teacher
// cache's Purge.
func (m *Memo[K, V]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.entries {
		p.Detach()
	}
	m.entries = make(map[K]*future.Promise[V])
}

// Size returns the number of memoized keys.
func (m *Memo[K, V]) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Package state holds the building blocks shared by the per-user state
// services: snapshot publishing, readiness gating, freshness tokens and
// background tasks.
package state

import "sync"

// Observable owns a snapshot of T and notifies subscribers on every change.
// Subscribers are called outside the lock, in registration order.
type Observable[T any] struct {
	mu    sync.RWMutex
	value T
	subs  map[uint64]func(T)
	order []uint64
	next  uint64
}

func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial, subs: make(map[uint64]func(T))}
}

func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	o.value = v
	subs := o.snapshotSubs()
	o.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update applies fn to the current value under the write lock and publishes
// the result.
func (o *Observable[T]) Update(fn func(T) T) T {
	o.mu.Lock()
	o.value = fn(o.value)
	v := o.value
	subs := o.snapshotSubs()
	o.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
	return v
}

// Subscribe registers fn and returns a function that removes it.
func (o *Observable[T]) Subscribe(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.next
	o.next++
	o.subs[id] = fn
	o.order = append(o.order, id)

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
		for i, v := range o.order {
			if v == id {
				o.order = append(o.order[:i], o.order[i+1:]...)
				break
			}
		}
	}
}

func (o *Observable[T]) snapshotSubs() []func(T) {
	subs := make([]func(T), 0, len(o.order))
	for _, id := range o.order {
		subs = append(subs, o.subs[id])
	}
	return subs
}

// Package observe provides a value holder that pushes every change to its
// subscribers.
//
// Readers never block: Get loads an immutable snapshot through an atomic
// pointer. Writers are serialized by a mutex and publish a new version before
// delivery starts. At most one goroutine delivers at a time; a write made
// while a delivery is in flight, including one made from inside a callback,
// is handed to that delivery and picked up on its next round. Each subscriber
// sees versions in increasing order and may skip intermediate ones, but every
// subscriber ends on the latest version once deliveries finish.
package observe

import (
	"sync"
	"sync/atomic"
)

// Observable is the read side of a Value.
type Observable[T any] interface {
	Get() T
	Subscribe(fn func(T)) (cancel func())
}

type versioned[T any] struct {
	val T
	ver uint64
}

type subscriber[T any] struct {
	fn     func(T)
	seen   uint64
	active atomic.Bool
}

// Value holds a T and notifies subscribers whenever it changes. Callbacks run
// without any lock held and may write to any Value, this one included. A
// writer whose change is delivered by another goroutine returns before its
// subscribers have been called.
type Value[T any] struct {
	cur atomic.Pointer[versioned[T]]

	mu sync.Mutex // serializes writes

	notifyMu   sync.Mutex // guards subs, nextID and delivering
	subs       map[uint64]*subscriber[T]
	nextID     uint64
	delivering bool
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	v := &Value[T]{subs: make(map[uint64]*subscriber[T])}
	v.cur.Store(&versioned[T]{val: initial, ver: 1})
	return v
}

// Get returns the current value without blocking.
func (v *Value[T]) Get() T {
	return v.cur.Load().val
}

// Set replaces the value and notifies subscribers.
func (v *Value[T]) Set(val T) {
	v.Update(func(T) (T, bool) { return val, true })
}

// Update applies fn to the current value under the write lock. When fn
// reports a change the result is published and subscribers are notified.
// Update returns whatever fn reported. fn must not write to v.
func (v *Value[T]) Update(fn func(old T) (T, bool)) bool {
	v.mu.Lock()
	old := v.cur.Load()
	next, changed := fn(old.val)
	if changed {
		v.cur.Store(&versioned[T]{val: next, ver: old.ver + 1})
	}
	v.mu.Unlock()

	if changed {
		v.notify()
	}
	return changed
}

// Subscribe registers fn and calls it with the current value. The call is
// immediate unless another goroutine is delivering, in which case that
// delivery makes it. The returned function removes the subscription; after it
// returns no new call to fn starts. It is safe to call
// twice.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	sub := &subscriber[T]{fn: fn}
	sub.active.Store(true)

	v.notifyMu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = sub
	v.notifyMu.Unlock()

	v.notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			v.notifyMu.Lock()
			delete(v.subs, id)
			v.notifyMu.Unlock()
		})
	}
}

// notify delivers the latest version to every subscriber that has not seen
// it, looping until no newer version appears. If a delivery is already
// running the call returns at once and that delivery covers it.
func (v *Value[T]) notify() {
	v.notifyMu.Lock()
	if v.delivering {
		v.notifyMu.Unlock()
		return
	}
	v.delivering = true

	locked := true
	defer func() {
		if !locked {
			v.notifyMu.Lock()
		}
		v.delivering = false
		v.notifyMu.Unlock()
	}()

	for {
		cur := v.cur.Load()
		var due []*subscriber[T]
		for _, sub := range v.subs {
			if sub.seen < cur.ver {
				sub.seen = cur.ver
				due = append(due, sub)
			}
		}
		if len(due) == 0 {
			return
		}

		v.notifyMu.Unlock()
		locked = false
		for _, sub := range due {
			if sub.active.Load() {
				sub.fn(cur.val)
			}
		}
		v.notifyMu.Lock()
		locked = true
	}
}

// Map derives a read-only Observable from src by applying fn to every value.
// The derived value is recomputed eagerly; call the returned cancel to detach
// it from src.
func Map[S, T any](src Observable[S], fn func(S) T) (Observable[T], func()) {
	var zero T
	out := NewValue(zero)
	cancel := src.Subscribe(func(s S) {
		out.Set(fn(s))
	})
	return out, cancel
}

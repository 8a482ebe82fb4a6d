// Package remotepush implements the container-growth protocol used to
// keep capacity growth off the realtime thread: the controller allocates
// a larger backing container and ships it across; the processor swaps it
// in without ever allocating or freeing itself.
package remotepush

import (
	"daw-engine/internal/dropper"
	"daw-engine/internal/ringchan"
)

// Container abstracts the backing collection the processor mutates
// in-place: a slice-shaped container (mixer tracks) or a map-shaped one
// (timeline tracks) both implement it.
type Container[K comparable, V any] interface {
	// Grow returns a fresh, larger, empty container with the same shape.
	Grow(newCapacity int) Container[K, V]
	// Capacity reports the container's current capacity.
	Capacity() int
	// Len reports the number of live entries.
	Len() int
	// Set stores value under key.
	Set(key K, value V)
	// Delete removes key, returning false if it was absent.
	Delete(key K) bool
	// CopyInto copies every entry of this container into dst.
	CopyInto(dst Container[K, V])
}

type opKind int

const (
	opPush opKind = iota
	opPushMany
	opRemove
	opRemoveMany
	opReallocated
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

type event[K comparable, V any] struct {
	kind    opKind
	entry   entry[K, V]
	entries []entry[K, V]
	keys    []K
	next    Container[K, V]
}

// Collection is the controller-facing handle. Push/Remove calls enqueue
// events consumed by a Processor on the realtime side. pendingLen tracks
// the logical size the processor's container will have once every
// already-queued event is applied — distinct from the live container's
// real Len(), which only advances when the processor catches up — so a
// burst of Pushes within one controller tick grows capacity correctly
// even though the processor hasn't applied any of them yet. Per the
// engine's controller contract, Collection methods are not safe to call
// concurrently from multiple goroutines.
type Collection[K comparable, V any] struct {
	events     *ringchan.Channel[event[K, V]]
	pendingLen int
	capacity   int
}

// New creates a Collection with the given initial event-queue capacity.
// The tracked container's capacity and length are read from the
// container passed to the first Push or PushMany.
func New[K comparable, V any](eventQueueCapacity int) *Collection[K, V] {
	return &Collection[K, V]{events: ringchan.New[event[K, V]](eventQueueCapacity)}
}

// sync brings pendingLen/capacity in line with current the first time
// the controller observes it; later calls change nothing.
func (c *Collection[K, V]) sync(current Container[K, V]) {
	if c.capacity == 0 {
		c.capacity = current.Capacity()
		c.pendingLen = current.Len()
	}
}

func (c *Collection[K, V]) growIfNeeded(current Container[K, V], needed int) Container[K, V] {
	if needed <= c.capacity {
		return current
	}
	newCap := nextPow2(needed)
	next := current.Grow(newCap)
	c.events.Send(event[K, V]{kind: opReallocated, next: next})
	c.capacity = newCap
	return next
}

// Push enqueues a single entry. If the logical size exceeds the
// pre-announced capacity, the controller allocates a larger replacement
// and enqueues a reallocation event ahead of the push.
func (c *Collection[K, V]) Push(current Container[K, V], key K, value V) Container[K, V] {
	c.sync(current)
	current = c.growIfNeeded(current, c.pendingLen+1)
	c.pendingLen++
	c.events.Send(event[K, V]{kind: opPush, entry: entry[K, V]{key: key, value: value}})
	return current
}

// PushMany enqueues a batch of entries as a single event.
func (c *Collection[K, V]) PushMany(current Container[K, V], kvs map[K]V) Container[K, V] {
	c.sync(current)
	current = c.growIfNeeded(current, c.pendingLen+len(kvs))
	c.pendingLen += len(kvs)
	entries := make([]entry[K, V], 0, len(kvs))
	for k, v := range kvs {
		entries = append(entries, entry[K, V]{key: k, value: v})
	}
	c.events.Send(event[K, V]{kind: opPushMany, entries: entries})
	return current
}

// Remove enqueues removal of a single key.
func (c *Collection[K, V]) Remove(key K) {
	if c.pendingLen > 0 {
		c.pendingLen--
	}
	c.events.Send(event[K, V]{kind: opRemove, entry: entry[K, V]{key: key}})
}

// RemoveMany enqueues removal of a batch of keys.
func (c *Collection[K, V]) RemoveMany(keys []K) {
	c.pendingLen -= len(keys)
	if c.pendingLen < 0 {
		c.pendingLen = 0
	}
	c.events.Send(event[K, V]{kind: opRemoveMany, keys: keys})
}

// Apply drains all pending events from rv and applies them to current,
// returning the (possibly reallocated) container to use from now on. Any
// replaced container is forwarded to the process-wide dropper instead of
// being freed on this goroutine.
func Apply[K comparable, V any](rv *ringchan.Receiver[event[K, V]], current Container[K, V]) Container[K, V] {
	for {
		ev, ok := rv.Next()
		if !ok {
			return current
		}
		switch ev.kind {
		case opPush:
			current.Set(ev.entry.key, ev.entry.value)
		case opPushMany:
			for _, e := range ev.entries {
				current.Set(e.key, e.value)
			}
		case opRemove:
			current.Delete(ev.entry.key)
		case opRemoveMany:
			for _, k := range ev.keys {
				current.Delete(k)
			}
		case opReallocated:
			old := current
			old.CopyInto(ev.next)
			current = ev.next
			dropper.NewDBox[Container[K, V]](old).Drop()
		}
	}
}

// ApplyUpTo drains at most max events from rv, applying them to current
// exactly as Apply does, and reports how many were actually applied.
// Used by the processor to bound one callback's event-draining work.
func ApplyUpTo[K comparable, V any](rv *ringchan.Receiver[event[K, V]], current Container[K, V], max int) (Container[K, V], int) {
	applied := 0
	for applied < max {
		ev, ok := rv.Next()
		if !ok {
			return current, applied
		}
		switch ev.kind {
		case opPush:
			current.Set(ev.entry.key, ev.entry.value)
		case opPushMany:
			for _, e := range ev.entries {
				current.Set(e.key, e.value)
			}
		case opRemove:
			current.Delete(ev.entry.key)
		case opRemoveMany:
			for _, k := range ev.keys {
				current.Delete(k)
			}
		case opReallocated:
			old := current
			old.CopyInto(ev.next)
			current = ev.next
			dropper.NewDBox[Container[K, V]](old).Drop()
		}
		applied++
	}
	return current, applied
}

// Receiver returns the receiving end of the event channel. Call once.
func (c *Collection[K, V]) Receiver() *ringchan.Receiver[event[K, V]] {
	return c.events.Receiver()
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	if p < 2 {
		p = 2
	}
	return p
}

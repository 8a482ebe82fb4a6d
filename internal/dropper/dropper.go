// Package dropper lets the realtime audio goroutine hand off ownership of
// memory it no longer needs to an off-thread goroutine, so that the
// garbage collector's work (and any explicit Close/Release a payload
// defines) never happens on the audio callback path.
package dropper

import "sync"

// Releasable is implemented by any payload that needs an explicit
// teardown step beyond becoming unreachable to the garbage collector.
type Releasable interface {
	Release()
}

var (
	once     sync.Once
	instance *Dropper
)

// Dropper owns a single background goroutine draining a channel of
// discarded values.
type Dropper struct {
	queue chan any
	done  chan struct{}
}

// Default returns the process-wide dropper, starting its goroutine on
// first use.
func Default() *Dropper {
	once.Do(func() {
		instance = &Dropper{
			queue: make(chan any, 1024),
			done:  make(chan struct{}),
		}
		go instance.run()
	})
	return instance
}

func (d *Dropper) run() {
	for v := range d.queue {
		if r, ok := v.(Releasable); ok {
			r.Release()
		}
	}
	close(d.done)
}

// Drop hands value off to the background goroutine. Never blocks the
// caller beyond a buffered channel send; callers on the realtime path
// must ensure the queue does not sustain a send rate faster than the
// drain rate, same discipline as the reference implementation's
// unbounded-channel original.
func (d *Dropper) Drop(value any) {
	d.queue <- value
}

// Shutdown closes the queue and waits for the background goroutine to
// drain it. The CLI calls this once, on process exit, since Go has no
// equivalent of dropping a process-wide static.
func (d *Dropper) Shutdown() {
	close(d.queue)
	<-d.done
}

// DBox is a unique-owning handle over a payload destined for off-thread
// release. Drop forwards the payload to the default Dropper; DBox must
// not be used again afterward.
type DBox[T any] struct {
	value T
}

// NewDBox wraps value for deferred release.
func NewDBox[T any](value T) DBox[T] {
	return DBox[T]{value: value}
}

// Get returns the wrapped value for use while still owned on the
// realtime side.
func (b DBox[T]) Get() T {
	return b.value
}

// Drop discards the box, sending its payload to the background dropper
// goroutine for release off the realtime thread. Go has no destructors;
// this is the one place the realtime code must call explicitly where the
// reference implementation relied on an implicit Drop impl.
func (b DBox[T]) Drop() {
	Default().Drop(b.value)
}

// Package keygen issues and recycles dense integer keys for the engine's
// independent key spaces: audio tracks, timeline tracks, mixer tracks,
// timeline clips, and stored clips each get their own generator instance.
package keygen

import (
	"sync"

	"daw-engine/internal/errors"
)

// Unsigned constrains the key types a Generator can issue: any of Go's
// fixed-width unsigned integer types.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Generator issues keys of type K, never reusing one that is still live.
// Zero value is not ready for use; call New.
type Generator[K Unsigned] struct {
	mu   sync.Mutex
	last K
	live map[K]struct{}
}

// New creates a key generator for keyspace K.
func New[K Unsigned]() *Generator[K] {
	return &Generator[K]{live: make(map[K]struct{})}
}

// Next returns the first key after the last issued one that is not
// currently live, wrapping past the type's maximum and skipping 0.
// Returns ErrOverflow if every non-zero value of K is live.
func (g *Generator[K]) Next() (K, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.saturated() {
		var zero K
		return zero, errors.New(errOverflow).
			Component("keygen").
			Category(errors.CategoryOverflow).
			Build()
	}

	candidate := g.last + 1
	for {
		if candidate == 0 {
			// 0 is never issued: keys start at 1.
			candidate++
		}
		if _, taken := g.live[candidate]; !taken {
			g.live[candidate] = struct{}{}
			g.last = candidate
			return candidate, nil
		}
		candidate++
		if candidate == g.last+1 {
			// wrapped all the way around without finding a free slot;
			// saturated() above should have caught this, but guard anyway.
			var zero K
			return zero, errors.New(errOverflow).
				Component("keygen").
				Category(errors.CategoryOverflow).
				Build()
		}
	}
}

// Reserve marks k as live. Returns ErrCollision if k is already live.
func (g *Generator[K]) Reserve(k K) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.live[k]; taken {
		return errors.New(errCollision).
			Component("keygen").
			Category(errors.CategoryCollision).
			Context("key", k).
			Build()
	}
	g.live[k] = struct{}{}
	return nil
}

// Free marks k as no longer live, making it eligible for reissue once
// Next wraps back around to it. Returns ErrNotFound if k was not live.
func (g *Generator[K]) Free(k K) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.live[k]; !ok {
		return errors.New(errNotFound).
			Component("keygen").
			Category(errors.CategoryNotFound).
			Context("key", k).
			Build()
	}
	delete(g.live, k)
	return nil
}

// InUse reports whether k is currently live.
func (g *Generator[K]) InUse(k K) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.live[k]
	return ok
}

// Remaining returns the number of keys not currently live.
func (g *Generator[K]) Remaining() K {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxValue() - K(len(g.live))
}

func (g *Generator[K]) saturated() bool {
	return K(len(g.live)) == g.maxValue()
}

// maxValue returns the maximum representable value of K (K's MAX, not
// MAX+1, which would overflow K itself).
func (g *Generator[K]) maxValue() K {
	var zero K
	return zero - 1
}

package mixer

import (
	"daw-engine/internal/keys"
	"daw-engine/internal/remotepush"
)

type trackSlot struct {
	key   keys.MixerTrackKey
	track *Track
}

// trackContainer is the slice-shaped remotepush.Container backing the
// mixer's track collection (as opposed to the timeline's map-shaped
// one): the reference implementation backs its mixer with a Vec, and
// the expected number of tracks is small enough that linear Set/Delete
// over a slice is the pragmatic idiom.
type trackContainer struct {
	slots    []trackSlot
	capacity int
}

func newTrackContainer(capacity int) *trackContainer {
	return &trackContainer{slots: make([]trackSlot, 0, capacity), capacity: capacity}
}

func (c *trackContainer) Grow(newCapacity int) remotepush.Container[keys.MixerTrackKey, *Track] {
	return newTrackContainer(newCapacity)
}

func (c *trackContainer) Capacity() int { return c.capacity }
func (c *trackContainer) Len() int      { return len(c.slots) }

func (c *trackContainer) Set(key keys.MixerTrackKey, value *Track) {
	for i, s := range c.slots {
		if s.key == key {
			c.slots[i].track = value
			return
		}
	}
	c.slots = append(c.slots, trackSlot{key: key, track: value})
}

func (c *trackContainer) Delete(key keys.MixerTrackKey) bool {
	for i, s := range c.slots {
		if s.key == key {
			c.slots = append(c.slots[:i], c.slots[i+1:]...)
			return true
		}
	}
	return false
}

func (c *trackContainer) CopyInto(dst remotepush.Container[keys.MixerTrackKey, *Track]) {
	for _, s := range c.slots {
		dst.Set(s.key, s.track)
	}
}

func (c *trackContainer) find(key keys.MixerTrackKey) *Track {
	for _, s := range c.slots {
		if s.key == key {
			return s.track
		}
	}
	return nil
}

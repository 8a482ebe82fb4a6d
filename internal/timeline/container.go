package timeline

import (
	"daw-engine/internal/keys"
	"daw-engine/internal/remotepush"
)

// trackContainer is the map-shaped remotepush.Container backing a
// Timeline's track collection.
type trackContainer struct {
	m        map[keys.TimelineTrackKey]*Track
	capacity int
}

func newTrackContainer(capacity int) *trackContainer {
	return &trackContainer{m: make(map[keys.TimelineTrackKey]*Track, capacity), capacity: capacity}
}

func (c *trackContainer) Grow(newCapacity int) remotepush.Container[keys.TimelineTrackKey, *Track] {
	return newTrackContainer(newCapacity)
}

func (c *trackContainer) Capacity() int { return c.capacity }
func (c *trackContainer) Len() int      { return len(c.m) }

func (c *trackContainer) Set(key keys.TimelineTrackKey, value *Track) { c.m[key] = value }

func (c *trackContainer) Delete(key keys.TimelineTrackKey) bool {
	_, ok := c.m[key]
	delete(c.m, key)
	return ok
}

func (c *trackContainer) CopyInto(dst remotepush.Container[keys.TimelineTrackKey, *Track]) {
	for k, v := range c.m {
		dst.Set(k, v)
	}
}

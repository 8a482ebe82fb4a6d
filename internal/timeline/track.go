package timeline

import (
	"sort"

	dawerrors "daw-engine/internal/errors"
	"daw-engine/internal/keys"
)

type orderedClip struct {
	key  keys.TimelineClipKey
	clip *Clip
}

// Track holds the clips placed on one timeline track, ordered by Start
// and kept disjoint. Ordering is a sorted slice plus a lookup map kept
// in lockstep, rather than a balanced tree: the expected clip count per
// track is small enough that binary search on a slice is the pragmatic
// idiom, and no ordered-map library in use elsewhere gives the exact
// stable-iteration-under-mutation contract this needs.
type Track struct {
	OutputMixerTrackKey keys.MixerTrackKey

	order []orderedClip
	byKey map[keys.TimelineClipKey]*Clip

	engineRate uint32

	activeClipKey keys.TimelineClipKey
	hasActive     bool

	// scratch is Render's output buffer, sized to maxWindow*2 at
	// construction and reused: Render runs once per track per realtime
	// callback and must not allocate.
	scratch []float32
}

// NewTrack creates an empty track outputting to outputMixerTrackKey,
// rendering at engineRate, with its render buffer sized for windows up
// to maxWindow frames.
func NewTrack(outputMixerTrackKey keys.MixerTrackKey, engineRate uint32, maxWindow int) *Track {
	return &Track{
		OutputMixerTrackKey: outputMixerTrackKey,
		byKey:               make(map[keys.TimelineClipKey]*Clip),
		engineRate:          engineRate,
		scratch:             make([]float32, maxWindow*2),
	}
}

func (t *Track) indexOf(key keys.TimelineClipKey) int {
	for i, oc := range t.order {
		if oc.key == key {
			return i
		}
	}
	return -1
}

func overlapErr() error {
	return dawerrors.New(errOverlap).Component("timeline").Category(dawerrors.CategoryOverlap).Build()
}

func clipNotFoundErr(key keys.TimelineClipKey) error {
	return dawerrors.New(errClipNotFound).Component("timeline").Category(dawerrors.CategoryNotFound).Context("key", key).Build()
}

// AddClip inserts clip under key, rejecting it with Overlap if it
// intersects an existing clip on the track. State is unchanged on
// rejection.
func (t *Track) AddClip(key keys.TimelineClipKey, clip *Clip, bpmCents BPMCents) error {
	idx := sort.Search(len(t.order), func(i int) bool { return t.order[i].clip.Start >= clip.Start })
	if idx > 0 && t.order[idx-1].clip.Overlaps(clip, bpmCents) {
		return overlapErr()
	}
	if idx < len(t.order) && t.order[idx].clip.Overlaps(clip, bpmCents) {
		return overlapErr()
	}

	t.order = append(t.order, orderedClip{})
	copy(t.order[idx+1:], t.order[idx:])
	t.order[idx] = orderedClip{key: key, clip: clip}
	t.byKey[key] = clip
	return nil
}

// DeleteClip removes and returns the clip under key.
func (t *Track) DeleteClip(key keys.TimelineClipKey) (*Clip, error) {
	clip, ok := t.byKey[key]
	if !ok {
		return nil, clipNotFoundErr(key)
	}
	idx := t.indexOf(key)
	t.order = append(t.order[:idx], t.order[idx+1:]...)
	delete(t.byKey, key)
	if t.hasActive && t.activeClipKey == key {
		t.hasActive = false
	}
	return clip, nil
}

// CropEnd shortens or lengthens clip's tail to newLen, rejecting the
// edit with Overlap if it would intersect the next clip. Start is
// unchanged.
func (t *Track) CropEnd(key keys.TimelineClipKey, newLen Timestamp, bpmCents BPMCents) error {
	clip, ok := t.byKey[key]
	if !ok {
		return clipNotFoundErr(key)
	}
	idx := t.indexOf(key)
	newEnd := clip.Start + newLen
	if idx+1 < len(t.order) && newEnd > t.order[idx+1].clip.Start {
		return overlapErr()
	}
	clip.Length = &newLen
	return nil
}

// CropStart trims clip's head so that its remaining length is newLen,
// keeping End fixed and advancing Start and StartOffset to match.
// Rejected with Overlap if the new Start would intersect the previous
// clip.
func (t *Track) CropStart(key keys.TimelineClipKey, newLen Timestamp, bpmCents BPMCents) error {
	clip, ok := t.byKey[key]
	if !ok {
		return clipNotFoundErr(key)
	}
	idx := t.indexOf(key)
	end := clip.End(bpmCents)
	if newLen > end {
		// cap silently so Start never goes below zero
		newLen = end
	}
	newStart := end - newLen
	if idx > 0 && t.order[idx-1].clip.End(bpmCents) > newStart {
		return overlapErr()
	}

	deltaTS := newStart - clip.Start
	deltaSamples := deltaTS.ToSamples(clip.sourceRate, bpmCents)
	clip.StartOffset += deltaSamples
	clip.Start = newStart
	clip.Length = &newLen

	// Start changed: the sorted order may need to shift, though since
	// overlap was checked against the immediate neighbor only, the
	// clip's relative position among starts is unchanged.
	return nil
}

// AllClips returns the keys of every clip on the track, in start order.
func (t *Track) AllClips() []keys.TimelineClipKey {
	out := make([]keys.TimelineClipKey, len(t.order))
	for i, oc := range t.order {
		out[i] = oc.key
	}
	return out
}

// Clip returns the clip under key, if any.
func (t *Track) Clip(key keys.TimelineClipKey) (*Clip, bool) {
	c, ok := t.byKey[key]
	return c, ok
}

// Seek invalidates the cached active-clip cursor, forcing the next
// Render call to explicitly re-seek whichever clip is under the
// playhead. Called after an external (timeline-level) jump.
func (t *Track) Seek() {
	t.hasActive = false
}

// Render fills a window*2 stereo buffer starting at playhead, silencing
// any gaps between clips and zero-filling any trailing region past the
// last clip. The returned slice aliases the track's own scratch buffer
// and is only valid until the track's next Render call.
func (t *Track) Render(playhead Timestamp, bpmCents BPMCents, window int) []float32 {
	out := t.scratch[:window*2]
	for i := range out {
		out[i] = 0
	}
	produced := 0

	idx := sort.Search(len(t.order), func(i int) bool { return t.order[i].clip.End(bpmCents) > playhead })
	pos := playhead

	for produced < window && idx < len(t.order) {
		oc := t.order[idx]

		if pos < oc.clip.Start {
			gap := oc.clip.Start - pos
			gapFrames := gap.ToSamples(t.engineRate, bpmCents)
			n := window - produced
			if gapFrames < n {
				n = gapFrames
			}
			produced += n
			pos += FromSamples(n, t.engineRate, bpmCents)
			continue
		}

		if !t.hasActive || t.activeClipKey != oc.key {
			if err := oc.clip.JumpTo(pos, t.engineRate, bpmCents); err != nil {
				idx++
				continue
			}
			t.activeClipKey = oc.key
			t.hasActive = true
		}

		remaining := oc.clip.End(bpmCents) - pos
		remainingFrames := remaining.ToSamples(t.engineRate, bpmCents)
		n := window - produced
		if remainingFrames < n {
			n = remainingFrames
		}
		if n < 0 {
			n = 0
		}

		chunk := oc.clip.Output(bpmCents, n)
		copy(out[produced*2:], chunk)
		produced += n
		pos += FromSamples(n, t.engineRate, bpmCents)
		idx++
	}

	return out
}

// Package mixer sums per-track volume/pan-processed audio into a
// master stereo bus, with lock-free controller-to-processor track
// membership changes via internal/remotepush.
package mixer

import (
	dawerrors "daw-engine/internal/errors"
	"daw-engine/internal/keygen"
	"daw-engine/internal/keys"
	"daw-engine/internal/remotepush"
)

// maxEventsPerTick bounds how much controller-side work one processor
// callback can be made to absorb per Apply call.
const maxEventsPerTick = 256

// TimelineSource supplies one mixer track's input audio for a window,
// sourced from whichever timeline track is assigned to feed it. The
// processor wires *timeline.Timeline in as this interface.
type TimelineSource interface {
	RenderMixerInput(mixerTrack keys.MixerTrackKey, window int) []float32
}

// Mixer owns the addressable (non-master) track set plus the always-
// present master track, and renders one window at a time.
type Mixer struct {
	trackKeys *keygen.Generator[keys.MixerTrackKey]

	tracks  *remotepush.Collection[keys.MixerTrackKey, *Track]
	current remotepush.Container[keys.MixerTrackKey, *Track]

	applyTracks func(remotepush.Container[keys.MixerTrackKey, *Track]) remotepush.Container[keys.MixerTrackKey, *Track]

	// mirror caches key -> *Track (the same pointers held by the live
	// container) purely so TrackHandle lookups don't need to reach
	// through remotepush's write-only Container interface.
	mirror map[keys.MixerTrackKey]*Track

	master *Track

	sampleRate uint32
	maxWindow  int
	masterBuf  []float32
	accBuf     []float64
}

// New creates a mixer with just the master track, rendering at
// sampleRate, with buffers preallocated for windows up to maxWindow
// frames.
func New(sampleRate uint32, maxWindow int) *Mixer {
	mx := &Mixer{
		trackKeys:  keygen.New[keys.MixerTrackKey](),
		tracks:     remotepush.New[keys.MixerTrackKey, *Track](64),
		current:    newTrackContainer(16),
		mirror:     make(map[keys.MixerTrackKey]*Track),
		sampleRate: sampleRate,
		maxWindow:  maxWindow,
		masterBuf:  make([]float32, maxWindow*2),
		accBuf:     make([]float64, maxWindow*2),
	}

	masterKey, err := mx.trackKeys.Next()
	if err != nil {
		panic("mixer: key generator exhausted reserving the master track")
	}
	mx.master = NewTrack(masterKey)

	rv := mx.tracks.Receiver()
	mx.applyTracks = func(current remotepush.Container[keys.MixerTrackKey, *Track]) remotepush.Container[keys.MixerTrackKey, *Track] {
		next, _ := remotepush.ApplyUpTo(rv, current, maxEventsPerTick)
		return next
	}

	return mx
}

func trackNotFoundErr(key keys.MixerTrackKey) error {
	return dawerrors.New(errTrackNotFound).Component("mixer").Category(dawerrors.CategoryNotFound).Context("key", key).Build()
}

// Master returns the always-present master track.
func (mx *Mixer) Master() *Track { return mx.master }

// AddTrack allocates a key and creates a new track at unity volume,
// centered pan.
func (mx *Mixer) AddTrack() (keys.MixerTrackKey, error) {
	key, err := mx.trackKeys.Next()
	if err != nil {
		return 0, dawerrors.New(err).Component("mixer").Category(dawerrors.CategoryOverflow).Build()
	}
	t := NewTrack(key)
	mx.mirror[key] = t
	mx.current = mx.tracks.Push(mx.current, key, t)
	return key, nil
}

// ReconstructTrack recreates a track under its original key with the
// given volume and pan, failing with Collision if key is already live.
func (mx *Mixer) ReconstructTrack(key keys.MixerTrackKey, volume, pan float32) error {
	if err := mx.trackKeys.Reserve(key); err != nil {
		return err
	}
	t := NewTrack(key)
	t.SetVolume(volume)
	t.SetPan(pan)
	mx.mirror[key] = t
	mx.current = mx.tracks.Push(mx.current, key, t)
	return nil
}

// DeleteTrack removes a track.
func (mx *Mixer) DeleteTrack(key keys.MixerTrackKey) error {
	if _, ok := mx.mirror[key]; !ok {
		return trackNotFoundErr(key)
	}
	delete(mx.mirror, key)
	mx.tracks.Remove(key)
	_ = mx.trackKeys.Free(key)
	return nil
}

// HasTrack reports whether key names a live, non-master track.
func (mx *Mixer) HasTrack(key keys.MixerTrackKey) bool {
	_, ok := mx.mirror[key]
	return ok
}

// TrackHandle returns the track under key.
func (mx *Mixer) TrackHandle(key keys.MixerTrackKey) (*Track, error) {
	t, ok := mx.mirror[key]
	if !ok {
		return nil, trackNotFoundErr(key)
	}
	return t, nil
}

// AllTracks returns every live non-master track key.
func (mx *Mixer) AllTracks() []keys.MixerTrackKey {
	out := make([]keys.MixerTrackKey, 0, len(mx.mirror))
	for k := range mx.mirror {
		out = append(out, k)
	}
	return out
}

// Apply drains queued track-membership events into the processor-side
// container. Must be called from the realtime goroutine only.
func (mx *Mixer) Apply() {
	mx.current = mx.applyTracks(mx.current)
}

// Render sums every non-master track's contribution (fetched from
// source) into the master bus via 64-bit accumulate-then-narrow, runs
// master processing, clamps to [-1,1], and returns the master buffer.
// The returned slice is reused on the next call.
func (mx *Mixer) Render(window int, source TimelineSource) []float32 {
	if window > mx.maxWindow {
		window = mx.maxWindow
	}
	n := window * 2
	acc := mx.accBuf[:n]
	for i := range acc {
		acc[i] = 0
	}

	tc, ok := mx.current.(*trackContainer)
	if ok {
		for _, slot := range tc.slots {
			buf := source.RenderMixerInput(slot.key, window)
			slot.track.Process(buf, mx.sampleRate)
			for i := 0; i < n && i < len(buf); i++ {
				acc[i] += float64(buf[i])
			}
		}
	}

	out := mx.masterBuf[:n]
	for i, v := range acc {
		out[i] = float32(v)
	}

	mx.master.Process(out, mx.sampleRate)

	for i, v := range out {
		if v > 1 {
			out[i] = 1
		} else if v < -1 {
			out[i] = -1
		}
	}
	return out
}

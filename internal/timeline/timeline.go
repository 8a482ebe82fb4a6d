package timeline

import (
	"sync/atomic"

	dawerrors "daw-engine/internal/errors"
	"daw-engine/internal/keygen"
	"daw-engine/internal/keys"
	"daw-engine/internal/remotepush"
	"daw-engine/internal/ringchan"
)

// maxEventsPerTick bounds how much controller-side work one processor
// callback can be made to absorb, so a burst of controller edits can
// never turn into an unbounded realtime-thread stall.
const maxEventsPerTick = 256

type clipOpKind int

const (
	clipOpAdd clipOpKind = iota
	clipOpDelete
	clipOpCropStart
	clipOpCropEnd
)

// clipOp is a structural edit to one track's clip set, committed by the
// controller and replayed by the processor against its own track
// instance. The controller validates disjointness against its mirrored
// copy before ever sending one of these, so the processor applies it
// without expecting rejection.
type clipOp struct {
	kind    clipOpKind
	track   keys.TimelineTrackKey
	clipKey keys.TimelineClipKey
	clip    *Clip
	newLen  Timestamp
}

// Timeline owns the set of tracks, the shared playhead and tempo, and
// the key spaces for timeline tracks and timeline clips. Track
// membership travels over a remotepush.Collection (map-shaped,
// following §5's "backs both the mixer's slice and the timeline's map"
// contract); per-track clip edits travel over their own plain event
// channel, since they're richer structural edits than container
// push/remove.
type Timeline struct {
	playhead atomic.Uint64
	bpmCents atomic.Uint32

	trackKeys *keygen.Generator[keys.TimelineTrackKey]
	clipKeys  *keygen.Generator[keys.TimelineClipKey]

	tracks  *remotepush.Collection[keys.TimelineTrackKey, *Track]
	current remotepush.Container[keys.TimelineTrackKey, *Track]

	applyTracks func(remotepush.Container[keys.TimelineTrackKey, *Track]) remotepush.Container[keys.TimelineTrackKey, *Track]

	clipEvents   *ringchan.Channel[clipOp]
	clipEventsRV *ringchan.Receiver[clipOp]

	// mirror is the controller-side copy used purely to validate
	// disjointness before an edit is enqueued; the processor's live
	// Track objects (reachable via current) are never touched from the
	// controller goroutine.
	mirror map[keys.TimelineTrackKey]*Track

	engineRate uint32
	maxWindow  int

	// silence is shared by every RenderMixerInput/RenderTrack call that
	// finds no live track to render: a zero buffer survives the mixer
	// track's volume/pan multiply unchanged (mirroring
	// processor.silentSource), so one persistent buffer can back every
	// such call without allocating.
	silence []float32
}

// New creates an empty timeline rendering at engineRate, with an
// initial tempo of initialBPMCents and render buffers sized for windows
// up to maxWindow frames.
func New(engineRate uint32, initialBPMCents BPMCents, maxWindow int) *Timeline {
	tl := &Timeline{
		trackKeys:  keygen.New[keys.TimelineTrackKey](),
		clipKeys:   keygen.New[keys.TimelineClipKey](),
		tracks:     remotepush.New[keys.TimelineTrackKey, *Track](64),
		current:    newTrackContainer(16),
		clipEvents: ringchan.New[clipOp](256),
		mirror:     make(map[keys.TimelineTrackKey]*Track),
		engineRate: engineRate,
		maxWindow:  maxWindow,
		silence:    make([]float32, maxWindow*2),
	}
	tl.bpmCents.Store(uint32(initialBPMCents))

	rv := tl.tracks.Receiver()
	tl.applyTracks = func(current remotepush.Container[keys.TimelineTrackKey, *Track]) remotepush.Container[keys.TimelineTrackKey, *Track] {
		next, _ := remotepush.ApplyUpTo(rv, current, maxEventsPerTick)
		return next
	}
	tl.clipEventsRV = tl.clipEvents.Receiver()

	return tl
}

func (tl *Timeline) BPMCents() BPMCents    { return BPMCents(tl.bpmCents.Load()) }
func (tl *Timeline) SetBPMCents(v BPMCents) { tl.bpmCents.Store(uint32(v)) }
func (tl *Timeline) Playhead() Timestamp    { return Timestamp(tl.playhead.Load()) }

func trackNotFoundErr(key keys.TimelineTrackKey) error {
	return dawerrors.New(errTrackNotFound).Component("timeline").Category(dawerrors.CategoryNotFound).Context("key", key).Build()
}

// AddTrack allocates a new timeline track key, outputting to
// outputMixerTrackKey.
func (tl *Timeline) AddTrack(outputMixerTrackKey keys.MixerTrackKey) (keys.TimelineTrackKey, error) {
	key, err := tl.trackKeys.Next()
	if err != nil {
		return 0, dawerrors.New(err).Component("timeline").Category(dawerrors.CategoryOverflow).Build()
	}
	tl.mirror[key] = NewTrack(outputMixerTrackKey, tl.engineRate, tl.maxWindow)
	tl.current = tl.tracks.Push(tl.current, key, NewTrack(outputMixerTrackKey, tl.engineRate, tl.maxWindow))
	return key, nil
}

// ReconstructTrack recreates a track under its original key, failing
// with Collision if key is already live. Used to restore a track
// deleted earlier in the same process, preserving its key across the
// round trip.
func (tl *Timeline) ReconstructTrack(key keys.TimelineTrackKey, outputMixerTrackKey keys.MixerTrackKey) error {
	if err := tl.trackKeys.Reserve(key); err != nil {
		return err
	}
	tl.mirror[key] = NewTrack(outputMixerTrackKey, tl.engineRate, tl.maxWindow)
	tl.current = tl.tracks.Push(tl.current, key, NewTrack(outputMixerTrackKey, tl.engineRate, tl.maxWindow))
	return nil
}

// DeleteTrack removes a track and every clip on it.
func (tl *Timeline) DeleteTrack(key keys.TimelineTrackKey) error {
	mt, ok := tl.mirror[key]
	if !ok {
		return trackNotFoundErr(key)
	}
	for _, ck := range mt.AllClips() {
		tl.clipKeys.Free(ck)
	}
	delete(tl.mirror, key)
	tl.tracks.Remove(key)
	_ = tl.trackKeys.Free(key)
	return nil
}

// HasTrack reports whether key names a live track.
func (tl *Timeline) HasTrack(key keys.TimelineTrackKey) bool {
	_, ok := tl.mirror[key]
	return ok
}

// AllTracks returns every live timeline-track key.
func (tl *Timeline) AllTracks() []keys.TimelineTrackKey {
	out := make([]keys.TimelineTrackKey, 0, len(tl.mirror))
	for k := range tl.mirror {
		out = append(out, k)
	}
	return out
}

// AddClip validates clip against the track's existing clips and, if
// disjoint, allocates a clip key and commits the placement.
func (tl *Timeline) AddClip(track keys.TimelineTrackKey, clip *Clip) (keys.TimelineClipKey, error) {
	mt, ok := tl.mirror[track]
	if !ok {
		return 0, trackNotFoundErr(track)
	}
	key, err := tl.clipKeys.Next()
	if err != nil {
		return 0, dawerrors.New(err).Component("timeline").Category(dawerrors.CategoryOverflow).Build()
	}
	bpm := tl.BPMCents()
	if err := mt.AddClip(key, clip, bpm); err != nil {
		_ = tl.clipKeys.Free(key)
		return 0, err
	}
	tl.clipEvents.Send(clipOp{kind: clipOpAdd, track: track, clipKey: key, clip: clip})
	return key, nil
}

// ReconstructClip re-places clip on track under its original key,
// failing with Collision if the key is already live or Overlap if it
// no longer fits (e.g. another clip now occupies the space).
func (tl *Timeline) ReconstructClip(track keys.TimelineTrackKey, key keys.TimelineClipKey, clip *Clip) error {
	mt, ok := tl.mirror[track]
	if !ok {
		return trackNotFoundErr(track)
	}
	if err := tl.clipKeys.Reserve(key); err != nil {
		return err
	}
	bpm := tl.BPMCents()
	if err := mt.AddClip(key, clip, bpm); err != nil {
		_ = tl.clipKeys.Free(key)
		return err
	}
	tl.clipEvents.Send(clipOp{kind: clipOpAdd, track: track, clipKey: key, clip: clip})
	return nil
}

// DeleteClip removes a clip from its track.
func (tl *Timeline) DeleteClip(track keys.TimelineTrackKey, clipKey keys.TimelineClipKey) (*Clip, error) {
	mt, ok := tl.mirror[track]
	if !ok {
		return nil, trackNotFoundErr(track)
	}
	clip, err := mt.DeleteClip(clipKey)
	if err != nil {
		return nil, err
	}
	_ = tl.clipKeys.Free(clipKey)
	tl.clipEvents.Send(clipOp{kind: clipOpDelete, track: track, clipKey: clipKey})
	return clip, nil
}

// CropEnd trims clip's tail to newLen, rejecting the edit with Overlap
// if it would collide with the next clip.
func (tl *Timeline) CropEnd(track keys.TimelineTrackKey, clipKey keys.TimelineClipKey, newLen Timestamp) error {
	mt, ok := tl.mirror[track]
	if !ok {
		return trackNotFoundErr(track)
	}
	if err := mt.CropEnd(clipKey, newLen, tl.BPMCents()); err != nil {
		return err
	}
	tl.clipEvents.Send(clipOp{kind: clipOpCropEnd, track: track, clipKey: clipKey, newLen: newLen})
	return nil
}

// CropStart trims clip's head to newLen, rejecting the edit with
// Overlap if it would collide with the previous clip.
func (tl *Timeline) CropStart(track keys.TimelineTrackKey, clipKey keys.TimelineClipKey, newLen Timestamp) error {
	mt, ok := tl.mirror[track]
	if !ok {
		return trackNotFoundErr(track)
	}
	if err := mt.CropStart(clipKey, newLen, tl.BPMCents()); err != nil {
		return err
	}
	tl.clipEvents.Send(clipOp{kind: clipOpCropStart, track: track, clipKey: clipKey, newLen: newLen})
	return nil
}

// AllClipsOnTrack returns the keys of every clip on track, in start
// order.
func (tl *Timeline) AllClipsOnTrack(track keys.TimelineTrackKey) ([]keys.TimelineClipKey, error) {
	mt, ok := tl.mirror[track]
	if !ok {
		return nil, trackNotFoundErr(track)
	}
	return mt.AllClips(), nil
}

// Clip returns the controller-visible metadata for clipKey on track.
func (tl *Timeline) Clip(track keys.TimelineTrackKey, clipKey keys.TimelineClipKey) (*Clip, bool) {
	mt, ok := tl.mirror[track]
	if !ok {
		return nil, false
	}
	return mt.Clip(clipKey)
}

// Jump moves the playhead to absolute and invalidates every live
// track's cursor cache so the next Render re-seeks from scratch.
func (tl *Timeline) Jump(absolute Timestamp) {
	tl.playhead.Store(uint64(absolute))
	tc, ok := tl.current.(*trackContainer)
	if !ok {
		return
	}
	for _, t := range tc.m {
		t.Seek()
	}
}

// liveTrack looks up the processor-side Track for key, bypassing the
// abstract Container interface (which is write-only) to reach the
// concrete map the processor actually renders from.
func (tl *Timeline) liveTrack(key keys.TimelineTrackKey) *Track {
	tc, ok := tl.current.(*trackContainer)
	if !ok {
		return nil
	}
	return tc.m[key]
}

// Apply drains queued track and clip events into the processor-side
// state. Must be called from the realtime goroutine only.
func (tl *Timeline) Apply() {
	tl.current = tl.applyTracks(tl.current)

	for i := 0; i < maxEventsPerTick; i++ {
		op, ok := tl.clipEventsRV.Next()
		if !ok {
			return
		}
		track := tl.liveTrack(op.track)
		if track == nil {
			continue
		}
		bpm := tl.BPMCents()
		switch op.kind {
		case clipOpAdd:
			_ = track.AddClip(op.clipKey, op.clip, bpm)
		case clipOpDelete:
			_, _ = track.DeleteClip(op.clipKey)
		case clipOpCropStart:
			_ = track.CropStart(op.clipKey, op.newLen, bpm)
		case clipOpCropEnd:
			_ = track.CropEnd(op.clipKey, op.newLen, bpm)
		}
	}
}

// RenderMixerInput satisfies mixer.TimelineSource: it finds whichever
// live timeline track is routed to mixerTrack and renders its window,
// or returns silence if none is routed there (or none yet applied).
func (tl *Timeline) RenderMixerInput(mixerTrack keys.MixerTrackKey, window int) []float32 {
	tc, ok := tl.current.(*trackContainer)
	if !ok {
		return tl.silence[:window*2]
	}
	for _, t := range tc.m {
		if t.OutputMixerTrackKey == mixerTrack {
			return t.Render(tl.Playhead(), tl.BPMCents(), window)
		}
	}
	return tl.silence[:window*2]
}

// RenderTrack fills a window*2 stereo buffer for track at the current
// playhead. Called by the mixer/processor once per output track, once
// per window.
func (tl *Timeline) RenderTrack(track keys.TimelineTrackKey, window int) []float32 {
	t := tl.liveTrack(track)
	if t == nil {
		return tl.silence[:window*2]
	}
	return t.Render(tl.Playhead(), tl.BPMCents(), window)
}

// Advance moves the playhead forward by window engine-rate frames,
// called once per processor tick while playing.
func (tl *Timeline) Advance(window int) {
	tl.playhead.Add(uint64(FromSamples(window, tl.engineRate, tl.BPMCents())))
}

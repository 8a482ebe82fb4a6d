package engine

import (
	"daw-engine/internal/clipreader"
	"daw-engine/internal/clipstore"
	"daw-engine/internal/keys"
	"daw-engine/internal/timeline"
)

// TimelineClipState is the metadata needed to recreate a deleted
// timeline clip exactly: its own key, the track it lived on, the
// stored clip it reads from, its placement, and its in-source cursor.
type TimelineClipState struct {
	Key         keys.TimelineClipKey
	Track       keys.TimelineTrackKey
	Stored      clipstore.Key
	Start       timeline.Timestamp
	Length      *timeline.Timestamp
	StartOffset clipreader.OriginalSamples
}

func (e *Engine) newClip(stored clipstore.Key, start timeline.Timestamp, length *timeline.Timestamp, startOffset clipreader.OriginalSamples) (*timeline.Clip, error) {
	info, err := e.clips.Info(stored)
	if err != nil {
		return nil, err
	}
	reader, err := e.clips.Reader(stored, e.cfg.Audio.SampleRate, MaxBufferSize)
	if err != nil {
		return nil, err
	}
	clip := timeline.NewClip(reader, start, length, startOffset, info.SampleRate, e.cfg.Audio.SampleRate, MaxBufferSize)
	return clip, nil
}

// AddTimelineClip places a reader over the stored clip on track,
// starting at start (optionally truncated to length).
func (e *Engine) AddTimelineClip(track keys.TimelineTrackKey, stored clipstore.Key, start timeline.Timestamp, length *timeline.Timestamp) (keys.TimelineClipKey, error) {
	clip, err := e.newClip(stored, start, length, 0)
	if err != nil {
		return 0, err
	}
	key, err := e.timeline.AddClip(track, clip)
	if err != nil {
		return 0, err
	}
	e.clipBindings[key] = clipBinding{track: track, stored: stored}
	return key, nil
}

// TimelineClip returns the controller-visible state of clip k.
func (e *Engine) TimelineClip(k keys.TimelineClipKey) (TimelineClipState, error) {
	b, ok := e.clipBindings[k]
	if !ok {
		return TimelineClipState{}, timelineClipNotFoundErr(k)
	}
	clip, ok := e.timeline.Clip(b.track, k)
	if !ok {
		return TimelineClipState{}, timelineClipNotFoundErr(k)
	}
	return TimelineClipState{
		Key:         k,
		Track:       b.track,
		Stored:      b.stored,
		Start:       clip.Start,
		Length:      clip.Length,
		StartOffset: clip.StartOffset,
	}, nil
}

// AllClipsOnTrack returns every clip key on track, in start order.
func (e *Engine) AllClipsOnTrack(track keys.TimelineTrackKey) ([]keys.TimelineClipKey, error) {
	return e.timeline.AllClipsOnTrack(track)
}

// DeleteTimelineClip removes clip k, returning the state needed to
// reconstruct it later.
func (e *Engine) DeleteTimelineClip(k keys.TimelineClipKey) (TimelineClipState, error) {
	state, err := e.TimelineClip(k)
	if err != nil {
		return TimelineClipState{}, err
	}
	if _, err := e.timeline.DeleteClip(state.Track, k); err != nil {
		return TimelineClipState{}, err
	}
	delete(e.clipBindings, k)
	return state, nil
}

// DeleteTimelineClips removes every clip in ks, stopping at the first
// failure.
func (e *Engine) DeleteTimelineClips(ks []keys.TimelineClipKey) ([]TimelineClipState, error) {
	out := make([]TimelineClipState, 0, len(ks))
	for _, k := range ks {
		s, err := e.DeleteTimelineClip(k)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ReconstructTimelineClip restores a deleted clip from s, preserving
// its key, track, and in-source cursor.
func (e *Engine) ReconstructTimelineClip(s TimelineClipState) error {
	clip, err := e.newClip(s.Stored, s.Start, s.Length, s.StartOffset)
	if err != nil {
		return err
	}
	if err := e.timeline.ReconstructClip(s.Track, s.Key, clip); err != nil {
		return err
	}
	e.clipBindings[s.Key] = clipBinding{track: s.Track, stored: s.Stored}
	return nil
}

// ReconstructTimelineClips restores every state in ss, stopping at the
// first failure.
func (e *Engine) ReconstructTimelineClips(ss []TimelineClipState) error {
	for _, s := range ss {
		if err := e.ReconstructTimelineClip(s); err != nil {
			return err
		}
	}
	return nil
}

// relocateClip removes k, applies mutate to its captured state, and
// reinserts it under the mutated state. If the reinsertion is rejected
// (most commonly Overlap), the clip is restored at its original
// position before the error is returned, so a rejected move never
// silently drops the clip.
func (e *Engine) relocateClip(k keys.TimelineClipKey, mutate func(*TimelineClipState)) error {
	original, err := e.DeleteTimelineClip(k)
	if err != nil {
		return err
	}
	moved := original
	mutate(&moved)
	if err := e.ReconstructTimelineClip(moved); err != nil {
		_ = e.ReconstructTimelineClip(original)
		return err
	}
	return nil
}

// MoveTimelineClip changes clip k's Start, subject to the same
// disjointness check as any other structural edit. Implemented as
// delete-then-reinsert at the new start, since the timeline package
// has no in-place move primitive.
func (e *Engine) MoveTimelineClip(k keys.TimelineClipKey, start timeline.Timestamp) error {
	return e.relocateClip(k, func(s *TimelineClipState) { s.Start = start })
}

// MoveTimelineClipToTrack moves clip k to a different track, at the
// same Start it already has.
func (e *Engine) MoveTimelineClipToTrack(k keys.TimelineClipKey, track keys.TimelineTrackKey) error {
	return e.relocateClip(k, func(s *TimelineClipState) { s.Track = track })
}

// CropStart trims clip k's head so its remaining length is newLen.
func (e *Engine) CropStart(k keys.TimelineClipKey, newLen timeline.Timestamp) error {
	b, ok := e.clipBindings[k]
	if !ok {
		return timelineClipNotFoundErr(k)
	}
	return e.timeline.CropStart(b.track, k, newLen)
}

// CropEnd trims clip k's tail to newLen.
func (e *Engine) CropEnd(k keys.TimelineClipKey, newLen timeline.Timestamp) error {
	b, ok := e.clipBindings[k]
	if !ok {
		return timelineClipNotFoundErr(k)
	}
	return e.timeline.CropEnd(b.track, k, newLen)
}

package engine

import "daw-engine/internal/keys"

// AudioTrackState is the metadata needed to recreate a deleted audio
// track exactly: its own key, the timeline/mixer keys it was bound to,
// and the mixer-side pan/volume it had at deletion time.
type AudioTrackState struct {
	Key         keys.AudioTrackKey
	TimelineKey keys.TimelineTrackKey
	MixerKey    keys.MixerTrackKey
	Volume      float32
	Pan         float32
}

// AddAudioTrack allocates an audio-track key bound to a fresh timeline
// track and a fresh mixer track (the pairing described by the
// glossary's audio-track bijection).
func (e *Engine) AddAudioTrack() (keys.AudioTrackKey, error) {
	mixerKey, err := e.mixerBus.AddTrack()
	if err != nil {
		return 0, err
	}
	timelineKey, err := e.timeline.AddTrack(mixerKey)
	if err != nil {
		_ = e.mixerBus.DeleteTrack(mixerKey)
		return 0, err
	}
	audioKey, err := e.audioKeys.Next()
	if err != nil {
		_ = e.timeline.DeleteTrack(timelineKey)
		_ = e.mixerBus.DeleteTrack(mixerKey)
		return 0, err
	}
	e.audioTracks[audioKey] = audioTrackBinding{timelineKey: timelineKey, mixerKey: mixerKey}
	return audioKey, nil
}

// AddAudioTracks allocates n audio tracks, stopping at the first
// failure and returning whatever succeeded before it (not
// transactional across the whole batch — each individual track's
// creation is internally atomic, but the batch as a whole is not rolled
// back on a partial failure).
func (e *Engine) AddAudioTracks(n int) ([]keys.AudioTrackKey, error) {
	out := make([]keys.AudioTrackKey, 0, n)
	for i := 0; i < n; i++ {
		k, err := e.AddAudioTrack()
		if err != nil {
			return out, err
		}
		out = append(out, k)
	}
	return out, nil
}

// DeleteAudioTrack removes an audio track and both of its halves,
// returning the state needed to reconstruct it later.
func (e *Engine) DeleteAudioTrack(k keys.AudioTrackKey) (AudioTrackState, error) {
	b, ok := e.audioTracks[k]
	if !ok {
		return AudioTrackState{}, audioTrackNotFoundErr(k)
	}
	mt, err := e.mixerBus.TrackHandle(b.mixerKey)
	if err != nil {
		return AudioTrackState{}, err
	}
	state := AudioTrackState{
		Key:         k,
		TimelineKey: b.timelineKey,
		MixerKey:    b.mixerKey,
		Volume:      mt.Volume(),
		Pan:         mt.Pan(),
	}
	if err := e.timeline.DeleteTrack(b.timelineKey); err != nil {
		return AudioTrackState{}, err
	}
	if err := e.mixerBus.DeleteTrack(b.mixerKey); err != nil {
		return AudioTrackState{}, err
	}
	_ = e.audioKeys.Free(k)
	delete(e.audioTracks, k)
	for clipKey, binding := range e.clipBindings {
		if binding.track == b.timelineKey {
			delete(e.clipBindings, clipKey)
		}
	}
	return state, nil
}

// DeleteAudioTracks removes every track in ks, stopping at the first
// failure.
func (e *Engine) DeleteAudioTracks(ks []keys.AudioTrackKey) ([]AudioTrackState, error) {
	out := make([]AudioTrackState, 0, len(ks))
	for _, k := range ks {
		s, err := e.DeleteAudioTrack(k)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ReconstructAudioTrack restores a deleted audio track from s,
// preserving its audio/timeline/mixer keys and mixer pan/volume.
func (e *Engine) ReconstructAudioTrack(s AudioTrackState) error {
	if err := e.mixerBus.ReconstructTrack(s.MixerKey, s.Volume, s.Pan); err != nil {
		return err
	}
	if err := e.timeline.ReconstructTrack(s.TimelineKey, s.MixerKey); err != nil {
		_ = e.mixerBus.DeleteTrack(s.MixerKey)
		return err
	}
	if err := e.audioKeys.Reserve(s.Key); err != nil {
		_ = e.timeline.DeleteTrack(s.TimelineKey)
		_ = e.mixerBus.DeleteTrack(s.MixerKey)
		return err
	}
	e.audioTracks[s.Key] = audioTrackBinding{timelineKey: s.TimelineKey, mixerKey: s.MixerKey}
	return nil
}

// ReconstructAudioTracks restores every state in ss, stopping at the
// first failure.
func (e *Engine) ReconstructAudioTracks(ss []AudioTrackState) error {
	for _, s := range ss {
		if err := e.ReconstructAudioTrack(s); err != nil {
			return err
		}
	}
	return nil
}

// HasAudioTrack reports whether k names a live audio track.
func (e *Engine) HasAudioTrack(k keys.AudioTrackKey) bool {
	_, ok := e.audioTracks[k]
	return ok
}

// AllAudioTracks returns every live audio-track key.
func (e *Engine) AllAudioTracks() []keys.AudioTrackKey {
	out := make([]keys.AudioTrackKey, 0, len(e.audioTracks))
	for k := range e.audioTracks {
		out = append(out, k)
	}
	return out
}

// TimelineKeyOf returns the timeline-track half of the audio track k.
func (e *Engine) TimelineKeyOf(k keys.AudioTrackKey) (keys.TimelineTrackKey, error) {
	b, ok := e.audioTracks[k]
	if !ok {
		return 0, audioTrackNotFoundErr(k)
	}
	return b.timelineKey, nil
}

// MixerKeyOf returns the mixer-track half of the audio track k.
func (e *Engine) MixerKeyOf(k keys.AudioTrackKey) (keys.MixerTrackKey, error) {
	b, ok := e.audioTracks[k]
	if !ok {
		return 0, audioTrackNotFoundErr(k)
	}
	return b.mixerKey, nil
}

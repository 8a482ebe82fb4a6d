package engine

import (
	"daw-engine/internal/clipstore"
	"daw-engine/internal/conf"
	"daw-engine/internal/keys"
	"daw-engine/internal/timeline"
)

// StoredClipRef is the persisted half of a stored clip: its key and the
// path it is re-imported (and decoded again) from.
type StoredClipRef struct {
	Key  clipstore.Key
	Path string
}

// MixerTrackState is one addressable mixer track's persisted settings.
type MixerTrackState struct {
	Key    keys.MixerTrackKey
	Volume float32
	Pan    float32
}

// TimelineTrackState is one timeline track's persisted wiring and
// clip placements.
type TimelineTrackState struct {
	Key                 keys.TimelineTrackKey
	OutputMixerTrackKey keys.MixerTrackKey
	Clips               []TimelineClipState
}

// AudioTrackBindingState records which timeline and mixer track keys
// one audio track pairs together.
type AudioTrackBindingState struct {
	Key         keys.AudioTrackKey
	TimelineKey keys.TimelineTrackKey
	MixerKey    keys.MixerTrackKey
}

// EngineState is a complete, order-independent snapshot of an engine:
// everything needed to rebuild an equivalent engine via FromState. It
// holds no audio samples; stored clips are referenced by path and
// re-decoded on load.
type EngineState struct {
	BPMCents     timeline.BPMCents
	StoredClips  []StoredClipRef
	MasterVolume float32
	MasterPan    float32
	MixerTracks  []MixerTrackState
	Timeline     []TimelineTrackState
	AudioTracks  []AudioTrackBindingState
}

// State takes a complete snapshot of e. Track and clip order in the
// returned slices is not meaningful; FromState restores each entry
// under its original key regardless of position.
func (e *Engine) State() EngineState {
	master := e.mixerBus.Master()
	state := EngineState{
		BPMCents:     e.timeline.BPMCents(),
		MasterVolume: master.Volume(),
		MasterPan:    master.Pan(),
	}

	for k, path := range e.storedPaths {
		state.StoredClips = append(state.StoredClips, StoredClipRef{Key: k, Path: path})
	}

	for _, mk := range e.mixerBus.AllTracks() {
		mt, err := e.mixerBus.TrackHandle(mk)
		if err != nil {
			continue
		}
		state.MixerTracks = append(state.MixerTracks, MixerTrackState{
			Key:    mk,
			Volume: mt.Volume(),
			Pan:    mt.Pan(),
		})
	}

	mixerKeyOf := make(map[keys.TimelineTrackKey]keys.MixerTrackKey, len(e.audioTracks))
	for _, b := range e.audioTracks {
		mixerKeyOf[b.timelineKey] = b.mixerKey
	}

	for _, tk := range e.timeline.AllTracks() {
		clipKeys, err := e.timeline.AllClipsOnTrack(tk)
		if err != nil {
			continue
		}
		clips := make([]TimelineClipState, 0, len(clipKeys))
		for _, ck := range clipKeys {
			cs, err := e.TimelineClip(ck)
			if err != nil {
				continue
			}
			clips = append(clips, cs)
		}
		state.Timeline = append(state.Timeline, TimelineTrackState{
			Key:                 tk,
			OutputMixerTrackKey: mixerKeyOf[tk],
			Clips:               clips,
		})
	}

	for ak, b := range e.audioTracks {
		state.AudioTracks = append(state.AudioTracks, AudioTrackBindingState{
			Key:         ak,
			TimelineKey: b.timelineKey,
			MixerKey:    b.mixerKey,
		})
	}

	return state
}

// FromState rebuilds an engine from a snapshot taken by State. Stored
// clips are re-imported from their recorded paths, so the referenced
// files must still be reachable. Tracks and clips are reconstructed
// under their original keys, making the result indistinguishable from
// the engine the snapshot was taken from.
func FromState(cfg *conf.EngineConfig, state EngineState) (*Engine, error) {
	e := Empty(cfg)
	e.timeline.SetBPMCents(state.BPMCents)

	master := e.mixerBus.Master()
	master.SetVolume(state.MasterVolume)
	master.SetPan(state.MasterPan)

	for _, ref := range state.StoredClips {
		k, err := e.clips.ReconstructImport(ref.Path, ref.Key)
		if err != nil {
			return nil, err
		}
		e.storedPaths[k] = ref.Path
	}

	for _, mt := range state.MixerTracks {
		if err := e.mixerBus.ReconstructTrack(mt.Key, mt.Volume, mt.Pan); err != nil {
			return nil, err
		}
	}

	for _, tt := range state.Timeline {
		if err := e.timeline.ReconstructTrack(tt.Key, tt.OutputMixerTrackKey); err != nil {
			return nil, err
		}
		for _, cs := range tt.Clips {
			if err := e.ReconstructTimelineClip(cs); err != nil {
				return nil, err
			}
		}
	}

	for _, b := range state.AudioTracks {
		if err := e.audioKeys.Reserve(b.Key); err != nil {
			return nil, err
		}
		e.audioTracks[b.Key] = audioTrackBinding{timelineKey: b.TimelineKey, mixerKey: b.MixerKey}
	}

	return e, nil
}

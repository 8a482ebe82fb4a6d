package engine

import (
	"daw-engine/internal/keys"
	"daw-engine/internal/mixer"
)

// Master returns the master mixer track, always present.
func (e *Engine) Master() *mixer.TrackHandle {
	return e.mixerBus.Master()
}

// MixerTrack returns the mixer track bound to k.
func (e *Engine) MixerTrack(k keys.MixerTrackKey) (*mixer.TrackHandle, error) {
	return e.mixerBus.TrackHandle(k)
}

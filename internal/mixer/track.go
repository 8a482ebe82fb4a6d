package mixer

import (
	"daw-engine/internal/keys"
	"daw-engine/internal/meter"
)

// smoothingWindow is the moving-average window, in output samples, for
// both volume and pan parameters.
const smoothingWindow = 64

// TrackHandle is the controller-facing name for a mixer track, the
// type callers outside this package address tracks by.
type TrackHandle = Track

// Track applies smoothed volume and pan to a prefilled stereo buffer
// and taps the result into its meter. The master track is an ordinary
// Track with no Key of its own in the addressable track set.
type Track struct {
	Key keys.MixerTrackKey

	volume *Parameter
	pan    *Parameter
	meter  *meter.Meter
}

// NewTrack creates a track at unity volume and centered pan.
func NewTrack(key keys.MixerTrackKey) *Track {
	return &Track{
		Key:    key,
		volume: NewParameter(1.0, smoothingWindow),
		pan:    NewParameter(0.0, smoothingWindow),
		meter:  meter.New(),
	}
}

func (t *Track) SetVolume(v float32) { t.volume.Set(v) }
func (t *Track) Volume() float32     { return t.volume.Get() }
func (t *Track) SetPan(v float32)    { t.pan.Set(v) }
func (t *Track) Pan() float32        { return t.pan.Get() }
func (t *Track) Meter() *meter.Meter { return t.meter }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Process applies per-sample smoothed volume and the pan law
// (left *= clamp(1-pan,0,1); right *= clamp(1+pan,0,1)) to buf in
// place, then reports the result to the track's meter.
func (t *Track) Process(buf []float32, sampleRate uint32) {
	frames := len(buf) / 2
	for i := 0; i < frames; i++ {
		vol := float64(t.volume.Next())
		pan := float64(t.pan.Next())

		left := float64(buf[i*2]) * vol
		right := float64(buf[i*2+1]) * vol

		left *= clamp01(1 - pan)
		right *= clamp01(1 + pan)

		buf[i*2] = float32(left)
		buf[i*2+1] = float32(right)
	}
	t.meter.Report(buf, sampleRate)
}

// Package keys collects the key-space type aliases shared across
// timeline, mixer, and engine so those packages can refer to each
// other's keys without import cycles.
package keys

// AudioTrackKey identifies an audio track: the user-facing pairing of
// one timeline track with one mixer track.
type AudioTrackKey = uint32

// TimelineTrackKey identifies a track in the timeline.
type TimelineTrackKey = uint32

// TimelineClipKey identifies a clip placed on a timeline track.
type TimelineClipKey = uint32

// MixerTrackKey identifies a track in the mixer, including the master.
type MixerTrackKey = uint32

// ClipKey identifies an imported, stored audio clip.
type ClipKey = uint32

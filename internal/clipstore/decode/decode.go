// Package decode adapts format-specific audio decoders behind one
// narrow interface so clipstore.Import can try each in turn.
package decode

import "io"

// Decoder probes a stream for its format and, if it matches, decodes it
// fully into per-channel float sample slices.
type Decoder interface {
	// Probe reports whether r looks like this decoder's format, along
	// with the channel count and sample rate if so. Probe may leave r
	// at any position; Decode seeks r back to the start itself.
	Probe(r io.ReadSeeker) (channels int, sampleRate uint32, ok bool)
	// Decode fully decodes r into one float32 slice per channel. All
	// slices have equal length.
	Decode(r io.ReadSeeker) (framesPerChannel [][]float32, err error)
}

// Registry holds decoders tried in registration order.
type Registry struct {
	decoders []Decoder
}

// NewRegistry creates a registry with the given decoders, tried in the
// order given.
func NewRegistry(decoders ...Decoder) *Registry {
	return &Registry{decoders: decoders}
}

// Default returns the registry used by clipstore.Import: WAV first,
// then FLAC, matching the teacher's decoder registration order.
func Default() *Registry {
	return NewRegistry(&wavDecoder{}, &flacDecoder{})
}

// Probe tries each registered decoder in order, returning the first
// that claims the stream.
func (r *Registry) Probe(rs io.ReadSeeker) (Decoder, int, uint32, bool) {
	for _, d := range r.decoders {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, 0, 0, false
		}
		if channels, sampleRate, ok := d.Probe(rs); ok {
			return d, channels, sampleRate, true
		}
	}
	return nil, 0, 0, false
}

package decode

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavDecoder decodes PCM WAV via go-audio/wav, the same library the
// teacher uses for its own audio fixtures.
type wavDecoder struct{}

func (d *wavDecoder) Probe(r io.ReadSeeker) (channels int, sampleRate uint32, ok bool) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, 0, false
	}
	dec.ReadInfo()
	return int(dec.NumChans), dec.SampleRate, true
}

func (d *wavDecoder) Decode(r io.ReadSeeker) ([][]float32, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, errUnknownFormat
	}

	channels := int(dec.NumChans)
	out := make([][]float32, channels)

	buf := &audio.IntBuffer{Data: make([]int, 4096*channels), Format: &audio.Format{
		NumChannels: channels,
		SampleRate:  int(dec.SampleRate),
	}}

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil && err != io.EOF {
			return nil, err
		}
		if n == 0 {
			break
		}

		floatBuf := buf.AsFloat32Buffer()
		frames := n / channels
		for ch := 0; ch < channels; ch++ {
			for f := 0; f < frames; f++ {
				out[ch] = append(out[ch], floatBuf.Data[f*channels+ch])
			}
		}

		if n < len(buf.Data) {
			break
		}
	}

	return out, nil
}

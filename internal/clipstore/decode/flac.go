package decode

import (
	"io"

	"github.com/tphakala/flac"
)

// flacDecoder decodes FLAC via the teacher's vendored flac library.
type flacDecoder struct{}

func (d *flacDecoder) Probe(r io.ReadSeeker) (channels int, sampleRate uint32, ok bool) {
	stream, err := flac.New(r)
	if err != nil {
		return 0, 0, false
	}
	defer stream.Close()
	return int(stream.Info.NChannels), stream.Info.SampleRate, true
}

func (d *flacDecoder) Decode(r io.ReadSeeker) ([][]float32, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	stream, err := flac.New(r)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	out := make([][]float32, channels)
	maxVal := float32(int32(1) << (stream.Info.BitsPerSample - 1))

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			samples := frame.Subframes[ch].Samples
			for _, s := range samples {
				out[ch] = append(out[ch], float32(s)/maxVal)
			}
		}
	}

	return out, nil
}

// Package resample implements the one component in this engine with no
// ecosystem Go library behind it: a per-channel sample-rate converter
// with an explicit, one-time-consumable output delay, mirroring the
// reference implementation's FFT-based resampler's output_delay()
// contract without requiring an FFT library. See DESIGN.md for why this
// is hand-rolled rather than imported.
package resample

// chunkSize is the fixed number of input frames pumped into the
// resampler per Process call, matching the reference implementation's
// fixed input chunking.
const chunkSize = 1024

// Resampler converts a mono stream from one sample rate to another using
// linear interpolation. It maintains enough history across Process calls
// to interpolate continuously, and reports a fixed output delay that
// callers must discard once after construction and after every Reset.
type Resampler struct {
	inRate, outRate uint32
	ratio           float64 // outRate / inRate

	// last input sample carried across Process calls, seeded to zero.
	prev float64
	// fractional position within the current input-sample pair.
	frac float64
}

// New creates a resampler converting from inRate to outRate.
func New(inRate, outRate uint32) *Resampler {
	return &Resampler{
		inRate:  inRate,
		outRate: outRate,
		ratio:   float64(outRate) / float64(inRate),
	}
}

// OutputDelay is the number of resampled output frames produced before
// the resampler's output is aligned with its input's logical start. The
// linear-interpolation implementation has zero filter latency, so it
// reports 0 and the clip reader has nothing to discard.
func (r *Resampler) OutputDelay() int {
	return 0
}

// Reset clears interpolation history, as if newly constructed.
func (r *Resampler) Reset() {
	r.prev = 0
	r.frac = 0
}

// ChunkSize returns the fixed input chunk size the clip reader should
// pump per Process call.
func (r *Resampler) ChunkSize() int {
	return chunkSize
}

// Ratio reports outRate/inRate, the factor relating a Process call's
// input length to its worst-case output length, for callers sizing a
// fixed-capacity destination buffer up front.
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// Process resamples in (up to ChunkSize() samples) appending output
// samples to dst, returning the extended slice and the number of input
// samples actually consumed.
func (r *Resampler) Process(in []float64, dst []float64) ([]float64, int) {
	if r.inRate == r.outRate {
		dst = append(dst, in...)
		return dst, len(in)
	}

	consumed := 0
	for consumed < len(in) {
		cur := in[consumed]
		for r.frac < 1.0 {
			sample := r.prev + (cur-r.prev)*r.frac
			dst = append(dst, sample)
			r.frac += 1.0 / r.ratio
		}
		r.frac -= 1.0
		r.prev = cur
		consumed++
	}
	return dst, consumed
}

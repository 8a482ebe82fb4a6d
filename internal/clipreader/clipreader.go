// Package clipreader implements the per-playback cursor over a stored
// clip: resampling to the engine's sample rate, channel expansion,
// interleaving, seeking, and past-end silence.
package clipreader

import (
	"math"

	"daw-engine/internal/clipreader/resample"
)

// OriginalSamples counts samples at a stored clip's native sample rate.
type OriginalSamples = int

// Reader owns a cursor into a stored clip's per-channel frames, resampled
// to engineRate if the clip's native rate differs. Output runs on the
// realtime render path (once per track per callback), so every buffer it
// touches is preallocated here at construction, sized to maxWindow, and
// reused in place — nothing below New allocates.
type Reader struct {
	frames     [][]float32 // one slice per source channel, shared, read-only
	sourceRate uint32
	engineRate uint32
	maxWindow  int

	resamplers []*resample.Resampler // nil if sourceRate == engineRate
	leftover   [][]float64           // per-channel unread resampled output; fixed capacity, compacted in place
	resampleIn []float64             // reusable per-chunk input staging, one channel at a time

	origPos      int // next unconsumed frame index into frames[0..]
	resampledPos int

	interleave []float32
}

// New creates a reader over frames (channels, equal-length), resampling
// from sourceRate to engineRate if they differ. maxWindow bounds the
// largest window Output will ever be asked to fill.
func New(frames [][]float32, sourceRate, engineRate uint32, maxWindow int) *Reader {
	r := &Reader{
		frames:     frames,
		sourceRate: sourceRate,
		engineRate: engineRate,
		maxWindow:  maxWindow,
		interleave: make([]float32, maxWindow*2),
	}
	if sourceRate != engineRate {
		r.resamplers = make([]*resample.Resampler, len(frames))
		r.leftover = make([][]float64, len(frames))
		for i := range frames {
			r.resamplers[i] = resample.New(sourceRate, engineRate)
		}

		chunk := r.resamplers[0].ChunkSize()
		ratio := r.resamplers[0].Ratio()
		// A single fillLeftover pump can overshoot `want` by up to one
		// chunk's worth of resampled output before the loop notices it
		// has enough; leftoverCap must absorb that overshoot on top of
		// the largest window Output will ever drain, or the per-channel
		// append in fillLeftover would have to grow the backing array.
		leftoverCap := maxWindow + int(math.Ceil(float64(chunk)*ratio)) + 1
		for i := range r.leftover {
			r.leftover[i] = make([]float64, 0, leftoverCap)
		}
		r.resampleIn = make([]float64, chunk)
		r.discardOutputDelay()
	}
	return r
}

// Len returns the number of frames (samples per channel) in the source.
func (r *Reader) Len() int {
	if len(r.frames) == 0 {
		return 0
	}
	return len(r.frames[0])
}

// Position returns the reader's position in original-domain samples.
func (r *Reader) Position() OriginalSamples {
	return r.origPos
}

// Jump seeks to originalPosition, clamped to Len(). Resampler state (if
// any) is reset and its output delay silently discarded, so Position()
// reports correctly relative to the new origin.
func (r *Reader) Jump(originalPosition OriginalSamples) {
	if originalPosition < 0 {
		originalPosition = 0
	}
	if originalPosition > r.Len() {
		originalPosition = r.Len()
	}
	r.origPos = originalPosition
	r.resampledPos = 0
	for i, rs := range r.resamplers {
		rs.Reset()
		r.leftover[i] = r.leftover[i][:0]
	}
	r.discardOutputDelay()
}

func (r *Reader) discardOutputDelay() {
	if len(r.resamplers) == 0 {
		return
	}
	delay := r.resamplers[0].OutputDelay()
	if delay == 0 {
		return
	}
	r.fillLeftover(delay)
	r.consumeLeftover(delay)
}

// Output returns at most windowSize*2 interleaved stereo samples,
// expanding a mono source to both channels and copying a stereo source
// through. Returns a shorter slice once the source is exhausted; never
// zero-pads. The returned slice aliases the reader's own scratch buffer
// and is only valid until the reader's next call.
func (r *Reader) Output(windowSize int) []float32 {
	if windowSize > r.maxWindow {
		windowSize = r.maxWindow
	}
	if len(r.resamplers) == 0 {
		return r.outputDirect(windowSize)
	}
	return r.outputResampled(windowSize)
}

func (r *Reader) outputDirect(windowSize int) []float32 {
	n := r.Len() - r.origPos
	if n > windowSize {
		n = windowSize
	}
	if n < 0 {
		n = 0
	}

	out := r.interleave[:n*2]
	switch len(r.frames) {
	case 1:
		ch := r.frames[0]
		for j := 0; j < n; j++ {
			v := ch[r.origPos+j]
			out[j*2] = v
			out[j*2+1] = v
		}
	default:
		ch0, ch1 := r.frames[0], r.frames[1]
		for j := 0; j < n; j++ {
			out[j*2] = ch0[r.origPos+j]
			out[j*2+1] = ch1[r.origPos+j]
		}
	}
	r.origPos += n
	return out
}

func (r *Reader) outputResampled(windowSize int) []float32 {
	r.fillLeftover(windowSize)
	n := len(r.leftover[0])
	if n > windowSize {
		n = windowSize
	}

	out := r.interleave[:n*2]
	switch len(r.leftover) {
	case 1:
		ch := r.leftover[0]
		for j := 0; j < n; j++ {
			v := float32(ch[j])
			out[j*2] = v
			out[j*2+1] = v
		}
	default:
		ch0, ch1 := r.leftover[0], r.leftover[1]
		for j := 0; j < n; j++ {
			out[j*2] = float32(ch0[j])
			out[j*2+1] = float32(ch1[j])
		}
	}
	r.consumeLeftover(n)
	r.resampledPos += n
	return out
}

// fillLeftover pumps source chunks through the per-channel resamplers
// until at least `want` resampled samples are buffered per channel, or
// the source is exhausted. Each channel's chunk is staged in the same
// reused scratch slice, since resample.Resampler.Process fully consumes
// its input before returning.
func (r *Reader) fillLeftover(want int) {
	for len(r.leftover[0]) < want && r.origPos < r.Len() {
		chunk := r.resamplers[0].ChunkSize()
		end := r.origPos + chunk
		if end > r.Len() {
			end = r.Len()
		}
		n := end - r.origPos
		in := r.resampleIn[:n]
		for i, rs := range r.resamplers {
			for j := 0; j < n; j++ {
				in[j] = float64(r.frames[i][r.origPos+j])
			}
			out, _ := rs.Process(in, r.leftover[i])
			r.leftover[i] = out
		}
		r.origPos = end
	}
}

// consumeLeftover removes the first n samples from each channel's
// leftover buffer, compacting the remainder down to index 0 so the
// buffer's fixed backing array is reused indefinitely rather than
// shrinking one reslice at a time.
func (r *Reader) consumeLeftover(n int) {
	for i := range r.leftover {
		nn := n
		if nn > len(r.leftover[i]) {
			nn = len(r.leftover[i])
		}
		remaining := copy(r.leftover[i], r.leftover[i][nn:])
		r.leftover[i] = r.leftover[i][:remaining]
	}
}

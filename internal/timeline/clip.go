package timeline

import (
	"daw-engine/internal/clipreader"
	dawerrors "daw-engine/internal/errors"
)

// Clip places a clip reader on a track at Start, optionally truncated to
// Length (beat units). StartOffset is the in-source sample the clip
// begins playing from (its "in point").
type Clip struct {
	Start       Timestamp
	Length      *Timestamp
	StartOffset OriginalSamples

	reader     *clipreader.Reader
	sourceRate uint32
	engineRate uint32

	// pad is the tail-padding scratch for Output, sized to maxWindow at
	// construction and reused: a fixed-length clip whose reader runs dry
	// mid-buffer is the routine case, not the exception, on the render
	// path, so this cannot be a fresh make() per call.
	pad []float32
}

// NewClip wraps reader in a timeline placement. maxWindow bounds the
// largest window Output will ever be asked to fill.
func NewClip(reader *clipreader.Reader, start Timestamp, length *Timestamp, startOffset OriginalSamples, sourceRate, engineRate uint32, maxWindow int) *Clip {
	c := &Clip{
		Start:       start,
		Length:      length,
		StartOffset: startOffset,
		reader:      reader,
		sourceRate:  sourceRate,
		engineRate:  engineRate,
		pad:         make([]float32, maxWindow*2),
	}
	c.Reset(engineRate)
	return c
}

// Reset seeks the reader back to StartOffset.
func (c *Clip) Reset(engineRate uint32) {
	c.engineRate = engineRate
	c.reader.Jump(c.StartOffset)
}

// End returns the clip's end time: Start+Length if Length is set,
// otherwise Start plus the underlying reader's remaining natural
// duration converted at bpmCents.
func (c *Clip) End(bpmCents BPMCents) Timestamp {
	if c.Length != nil {
		return c.Start + *c.Length
	}
	remaining := c.reader.Len() - c.StartOffset
	if remaining < 0 {
		remaining = 0
	}
	return c.Start + FromSamples(remaining, c.sourceRate, bpmCents)
}

// Overlaps reports whether c and other, both on the same track, occupy
// overlapping half-open [Start, End) intervals at bpmCents.
func (c *Clip) Overlaps(other *Clip, bpmCents BPMCents) bool {
	return c.Start < other.End(bpmCents) && other.Start < c.End(bpmCents)
}

// JumpTo seeks the clip's reader so that playback at absolute resumes
// correctly, given the clip's own sample rate and the current tempo.
// Returns ErrJumpOutOfBounds if absolute precedes the clip's in-source
// start.
func (c *Clip) JumpTo(absolute Timestamp, rate uint32, bpmCents BPMCents) error {
	absSamples := absolute.ToSamples(rate, bpmCents)
	startSamples := c.Start.ToSamples(rate, bpmCents)
	offset := absSamples - startSamples - c.StartOffset
	if offset < 0 {
		return dawerrors.New(errJumpOutOfBounds).
			Component("timeline").
			Category(dawerrors.CategoryOutOfBounds).
			Context("start", c.Start).
			Context("absolute", absolute).
			Build()
	}
	c.reader.Jump(c.StartOffset + offset)
	return nil
}

// Output produces up to window engine-rate stereo frames. Fixed-length
// clips are capped at their remaining Length and, if the underlying
// reader runs out before that cap, zero-padded to the requested size.
// Unbounded clips forward directly to the reader. The returned slice
// aliases the clip's own scratch buffer and is only valid until the
// clip's next call.
func (c *Clip) Output(bpmCents BPMCents, window int) []float32 {
	if c.Length == nil {
		return c.reader.Output(window)
	}

	elapsedSamples := c.reader.Position() - c.StartOffset
	if elapsedSamples < 0 {
		elapsedSamples = 0
	}
	elapsed := FromSamples(elapsedSamples, c.sourceRate, bpmCents)
	end := c.Start + *c.Length

	var remaining Timestamp
	if c.Start+elapsed < end {
		remaining = end - (c.Start + elapsed)
	}
	remainingFrames := remaining.ToSamples(c.engineRate, bpmCents)

	capped := window
	if remainingFrames < capped {
		capped = remainingFrames
	}
	if capped < 0 {
		capped = 0
	}

	out := c.reader.Output(capped)
	if len(out) == window*2 {
		return out
	}
	padded := c.pad[:window*2]
	for i := range padded {
		padded[i] = 0
	}
	copy(padded, out)
	return padded
}

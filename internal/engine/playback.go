package engine

import "daw-engine/internal/timeline"

// Play starts the timeline advancing.
func (e *Engine) Play() { e.processor.Play() }

// Pause stops the timeline advancing; the output stream keeps running,
// fed silence.
func (e *Engine) Pause() { e.processor.Pause() }

// JumpTo moves the playhead to ts, invalidating every track's render
// cursor cache.
func (e *Engine) JumpTo(ts timeline.Timestamp) error {
	e.timeline.Jump(ts)
	return nil
}

// PlayheadPosition returns the current playhead.
func (e *Engine) PlayheadPosition() timeline.Timestamp {
	return e.timeline.Playhead()
}

// BPMCents returns the current tempo in centi-BPM.
func (e *Engine) BPMCents() timeline.BPMCents {
	return e.timeline.BPMCents()
}

// SetBPMCents sets the tempo in centi-BPM.
func (e *Engine) SetBPMCents(v timeline.BPMCents) {
	e.timeline.SetBPMCents(v)
}

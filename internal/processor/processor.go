// Package processor ties the timeline and mixer together behind the
// single realtime entry point the output sink calls on every device
// callback. Nothing in this package allocates, blocks, or takes a lock
// once construction is done.
package processor

import (
	"fmt"
	"sync/atomic"

	"daw-engine/internal/keys"
	"daw-engine/internal/mixer"
	"daw-engine/internal/timeline"
)

// RecordTap receives a read-only copy of every rendered master buffer,
// for callers that want to write the output stream to disk. Write must
// not block or allocate in a way that stalls the caller for long; the
// processor does not protect against a slow tap backing up the audio
// thread.
type RecordTap interface {
	Write(buf []float32)
}

type tapHolder struct{ tap RecordTap }

// silentSource feeds a shared, never-mutated-to-nonzero buffer to every
// mixer track when the timeline isn't advancing. Zero survives the
// volume/pan multiply unchanged, so every track can safely read (and
// the track's Process can safely scale) the same backing slice.
type silentSource struct{ buf []float32 }

func (s silentSource) RenderMixerInput(_ keys.MixerTrackKey, window int) []float32 {
	return s.buf[:window*2]
}

// Processor is the realtime entry point. One instance per running
// engine; Render is called once per output-device tick.
type Processor struct {
	timeline *timeline.Timeline
	mixer    *mixer.Mixer

	playing atomic.Bool
	tap     atomic.Pointer[tapHolder]

	maxWindow int
	zero      silentSource

	// debugMode gates the MaxBufferSize assertion with a panic, the way
	// the engine's ambient config flag gates debug-level diagnostics
	// elsewhere: a release build degrades by clamping instead of
	// crashing the audio thread, since by the time audio sees an
	// oversized window the controller has already violated its
	// contract with the host driver.
	debugMode bool
}

// New creates a processor driving tl and mx, with buffers sized for
// output windows up to maxWindow frames. debugMode mirrors
// conf.EngineConfig.Debug.
func New(tl *timeline.Timeline, mx *mixer.Mixer, maxWindow int, debugMode bool) *Processor {
	return &Processor{
		timeline:  tl,
		mixer:     mx,
		maxWindow: maxWindow,
		zero:      silentSource{buf: make([]float32, maxWindow*2)},
		debugMode: debugMode,
	}
}

// Play marks the timeline as advancing.
func (p *Processor) Play() { p.playing.Store(true) }

// Pause stops the timeline from advancing; rendering continues, fed
// with silence.
func (p *Processor) Pause() { p.playing.Store(false) }

// Playing reports whether the timeline is currently advancing.
func (p *Processor) Playing() bool { return p.playing.Load() }

// SetRecordTap installs (or clears, with nil) a tap that receives every
// rendered master buffer. Safe to call from the controller at any time.
func (p *Processor) SetRecordTap(tap RecordTap) {
	p.tap.Store(&tapHolder{tap: tap})
}

// poll drains pending controller edits into the processor-side state
// for both the timeline and the mixer. Bounded per call by each
// package's own maxEventsPerTick so a burst of controller activity can
// never turn into an unbounded realtime stall.
func (p *Processor) poll() {
	p.timeline.Apply()
	p.mixer.Apply()
}

func (p *Processor) assertWindow(window int) {
	if p.debugMode && window > p.maxWindow {
		panic(fmt.Sprintf("processor: output window %d exceeds MaxBufferSize %d", window, p.maxWindow))
	}
}

// Render fills out (an interleaved stereo float32 buffer, frames frames
// long) with the next window of rendered audio. This is the function
// the output sink's callback invokes; it must never allocate.
func (p *Processor) Render(out []float32, frames int) {
	p.assertWindow(frames)

	window := frames
	if window > p.maxWindow {
		window = p.maxWindow
	}

	p.poll()

	playing := p.Playing()
	var master []float32
	if playing {
		master = p.mixer.Render(window, p.timeline)
	} else {
		master = p.mixer.Render(window, p.zero)
	}

	n := window * 2
	if n > len(out) {
		n = len(out)
	}
	if n > len(master) {
		n = len(master)
	}
	copy(out[:n], master[:n])

	if h := p.tap.Load(); h != nil && h.tap != nil {
		h.tap.Write(master[:n])
	}

	if playing {
		p.timeline.Advance(window)
	}
}

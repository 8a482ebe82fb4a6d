// Package engine is the controller-side façade over the timeline,
// mixer, and processor: the single type the CLI (or any other host)
// talks to. Its exported methods are not safe to call concurrently
// from multiple goroutines without external synchronization — matching
// the ordering guarantees documented in internal/processor and
// internal/remotepush.
package engine

import (
	"sync"

	"daw-engine/internal/clipstore"
	"daw-engine/internal/conf"
	dawerrors "daw-engine/internal/errors"
	"daw-engine/internal/engine/output"
	"daw-engine/internal/keygen"
	"daw-engine/internal/keys"
	"daw-engine/internal/mixer"
	"daw-engine/internal/processor"
	"daw-engine/internal/timeline"
)

// MaxBufferSize bounds the largest output window the processor will
// accept per callback; larger requests are clamped (or, in debug
// builds, trigger an assertion panic — see internal/processor).
const MaxBufferSize = 4096

// audioTrackBinding pairs one audio track's timeline and mixer halves,
// the bijection described in the glossary.
type audioTrackBinding struct {
	timelineKey keys.TimelineTrackKey
	mixerKey    keys.MixerTrackKey
}

// clipBinding records which track a timeline clip lives on and which
// stored clip it reads from, metadata the controller needs that the
// timeline package itself doesn't track (a timeline clip only knows
// its own reader, not the stored clip's key or import path).
type clipBinding struct {
	track  keys.TimelineTrackKey
	stored clipstore.Key
}

// Engine is the top-level façade: lifecycle, playback, track, and clip
// operations, backed by a timeline, a mixer, and a processor tying them
// to an output sink.
type Engine struct {
	cfg *conf.EngineConfig

	timeline  *timeline.Timeline
	mixerBus  *mixer.Mixer
	processor *processor.Processor
	sink      output.Sink

	clips *clipstore.Store

	mu           sync.Mutex
	audioKeys    *keygen.Generator[keys.AudioTrackKey]
	audioTracks  map[keys.AudioTrackKey]audioTrackBinding
	clipBindings map[keys.TimelineClipKey]clipBinding
	storedPaths  map[clipstore.Key]string

	running bool
}

// Empty creates a new engine with no tracks or clips, configured from
// cfg but not yet started.
func Empty(cfg *conf.EngineConfig) *Engine {
	tl := timeline.New(cfg.Audio.SampleRate, 12000, MaxBufferSize)
	mx := mixer.New(cfg.Audio.SampleRate, MaxBufferSize)
	proc := processor.New(tl, mx, MaxBufferSize, cfg.Debug)

	return &Engine{
		cfg:          cfg,
		timeline:     tl,
		mixerBus:     mx,
		processor:    proc,
		clips:        clipstore.New(),
		audioKeys:    keygen.New[keys.AudioTrackKey](),
		audioTracks:  make(map[keys.AudioTrackKey]audioTrackBinding),
		clipBindings: make(map[keys.TimelineClipKey]clipBinding),
		storedPaths:  make(map[clipstore.Key]string),
	}
}

// SetConfig validates and swaps in a new configuration. It does not
// restart an already-running output stream; call Close and re-Start
// (via a fresh Engine) to pick up sample-rate or device changes.
func (e *Engine) SetConfig(cfg *conf.EngineConfig) error {
	if err := conf.Validate(cfg); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Start opens the configured output sink (real device or dummy) and
// begins driving the processor from its callback.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}
	e.sink = output.New(e.cfg)
	if err := e.sink.Start(e.cfg, e.processor.Render); err != nil {
		return err
	}
	e.running = true
	return nil
}

// Close stops the output stream, if running.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.sink == nil {
		return nil
	}
	err := e.sink.Stop()
	e.running = false
	return err
}

func audioTrackNotFoundErr(key keys.AudioTrackKey) error {
	return dawerrors.New(errAudioTrackNotFound).
		Component("engine").
		Category(dawerrors.CategoryNotFound).
		Context("key", key).
		Build()
}

func timelineClipNotFoundErr(key keys.TimelineClipKey) error {
	return dawerrors.New(errTimelineClipNotFound).
		Component("engine").
		Category(dawerrors.CategoryNotFound).
		Context("key", key).
		Build()
}

// Package output adapts the processor's realtime Render callback onto
// a real audio device (via malgo/miniaudio) or a no-device dummy sink
// for headless tests and CI.
package output

import (
	stderrors "errors"

	"daw-engine/internal/conf"
	"daw-engine/internal/errors"
)

// ErrDeviceUnavailable is returned when the requested (or default)
// playback device could not be opened.
var ErrDeviceUnavailable = stderrors.New("output: device unavailable")

// ErrUnsupportedConfiguration is returned when the host driver cannot
// negotiate a format close enough to the requested one.
var ErrUnsupportedConfiguration = stderrors.New("output: unsupported configuration")

// Callback is invoked once per device tick with an interleaved stereo
// float32 buffer to fill and its length in frames.
type Callback func(out []float32, frames int)

// Sink starts and stops a stream of Callback invocations.
type Sink interface {
	Start(cfg *conf.EngineConfig, callback Callback) error
	Stop() error
}

// New picks malgoSink or dummySink depending on cfg.Audio.DummyOutput.
func New(cfg *conf.EngineConfig) Sink {
	if cfg.Audio.DummyOutput {
		return newDummySink()
	}
	return newMalgoSink()
}

func deviceUnavailable(cause error, deviceName string) error {
	return errors.New(ErrDeviceUnavailable).
		Component("output").
		Category(errors.CategoryConfig).
		Context("device", deviceName).
		Context("cause", cause).
		Build()
}

func unsupportedConfiguration(cause error, sampleRate uint32, channels uint16) error {
	return errors.New(ErrUnsupportedConfiguration).
		Component("output").
		Category(errors.CategoryConfig).
		Context("sample_rate", sampleRate).
		Context("channels", channels).
		Context("cause", cause).
		Build()
}

package conf

import (
	"daw-engine/internal/errors"
)

// Validate checks an EngineConfig for values the engine cannot start
// with, wrapping any violation as a CategoryConfig error.
func Validate(cfg *EngineConfig) error {
	if cfg.Audio.Channels != 2 {
		return errors.Newf("unsupported configuration: only stereo output is supported, got %d channels", cfg.Audio.Channels).
			Component("conf").
			Category(errors.CategoryConfig).
			Context("channels", cfg.Audio.Channels).
			Build()
	}
	if cfg.Audio.SampleRate == 0 {
		return errors.Newf("unsupported configuration: sample rate must be greater than zero").
			Component("conf").
			Category(errors.CategoryConfig).
			Build()
	}
	if cfg.Audio.BufferSizeHint == 0 {
		return errors.Newf("unsupported configuration: buffer size hint must be greater than zero").
			Component("conf").
			Category(errors.CategoryConfig).
			Build()
	}
	return nil
}

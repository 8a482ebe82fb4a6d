package output

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/gen2brain/malgo"

	"daw-engine/internal/conf"
)

// malgoSink wraps malgo (miniaudio bindings) to drive the processor
// from a real playback device.
type malgoSink struct {
	mu  sync.Mutex
	ctx *malgo.AllocatedContext
	dev *malgo.Device
}

func newMalgoSink() *malgoSink {
	return &malgoSink{}
}

func backendsForPlatform() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa, malgo.BackendPulseAudio}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return []malgo.Backend{malgo.BackendNull}
	}
}

func (s *malgoSink) Start(cfg *conf.EngineConfig, callback Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, err := malgo.InitContext(backendsForPlatform(), malgo.ContextConfig{}, nil)
	if err != nil {
		return deviceUnavailable(err, cfg.Audio.DeviceName)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(cfg.Audio.Channels)
	deviceConfig.SampleRate = cfg.Audio.SampleRate
	deviceConfig.PeriodSizeInFrames = cfg.Audio.BufferSizeHint
	deviceConfig.Alsa.NoMMap = 1

	if cfg.Audio.DeviceName != "" {
		if id, ok := findPlaybackDevice(ctx, cfg.Audio.DeviceName); ok {
			deviceConfig.Playback.DeviceID = id.Pointer()
		}
	}

	onSamples := func(output, _ []byte, frameCount uint32) {
		buf := unsafe.Slice((*float32)(unsafe.Pointer(&output[0])), int(frameCount)*2)
		callback(buf, int(frameCount))
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		_ = ctx.Uninit()
		return unsupportedConfiguration(err, cfg.Audio.SampleRate, cfg.Audio.Channels)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		return deviceUnavailable(err, cfg.Audio.DeviceName)
	}

	s.ctx = ctx
	s.dev = device
	return nil
}

func (s *malgoSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev != nil {
		_ = s.dev.Stop()
		s.dev.Uninit()
		s.dev = nil
	}
	if s.ctx != nil {
		_ = s.ctx.Uninit()
		s.ctx = nil
	}
	return nil
}

func findPlaybackDevice(ctx *malgo.AllocatedContext, name string) (malgo.DeviceID, bool) {
	infos, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return malgo.DeviceID{}, false
	}
	for i := range infos {
		if infos[i].Name() == name {
			return infos[i].ID, true
		}
	}
	return malgo.DeviceID{}, false
}

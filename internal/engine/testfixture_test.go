package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"daw-engine/internal/conf"
)

// testConfig returns a dummy-output stereo engine config at 44100 Hz.
func testConfig() *conf.EngineConfig {
	cfg := &conf.EngineConfig{}
	cfg.Audio.SampleRate = 44100
	cfg.Audio.Channels = 2
	cfg.Audio.BufferSizeHint = 1024
	cfg.Audio.DummyOutput = true
	return cfg
}

// writeMonoWAV writes an n-frame mono PCM16 fixture at sampleRate,
// filled with a constant value, and returns its path.
func writeMonoWAV(t *testing.T, n int, value int, sampleRate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           make([]int, n),
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = value
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

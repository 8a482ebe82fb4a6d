package mixer

import (
	"testing"

	"daw-engine/internal/keys"
)

func TestPanLawHardLeftSilencesRight(t *testing.T) {
	tr := NewTrack(1)
	tr.SetPan(-1)

	buf := make([]float32, 0, 400)
	for i := 0; i < 200; i++ {
		buf = append(buf, 1, 1)
	}
	tr.Process(buf, 44100)

	last := len(buf) - 2
	if buf[last] != 1 {
		t.Errorf("expected left channel to stay at 1, got %v", buf[last])
	}
	if buf[last+1] != 0 {
		t.Errorf("expected right channel silenced, got %v", buf[last+1])
	}
}

func TestPanLawHardRightSilencesLeft(t *testing.T) {
	tr := NewTrack(1)
	tr.SetPan(1)

	buf := make([]float32, 0, 400)
	for i := 0; i < 200; i++ {
		buf = append(buf, 1, 1)
	}
	tr.Process(buf, 44100)

	last := len(buf) - 2
	if buf[last] != 0 {
		t.Errorf("expected left channel silenced, got %v", buf[last])
	}
	if buf[last+1] != 1 {
		t.Errorf("expected right channel to stay at 1, got %v", buf[last+1])
	}
}

type stubSource struct {
	bufs map[keys.MixerTrackKey][]float32
}

func (s stubSource) RenderMixerInput(mixerTrack keys.MixerTrackKey, window int) []float32 {
	return s.bufs[mixerTrack]
}

func TestRenderSumsNegatedSignalsToZero(t *testing.T) {
	const window = 16
	mx := New(44100, window)

	const n = 200
	bufs := stubSource{bufs: make(map[keys.MixerTrackKey][]float32)}
	keysUsed := make([]keys.MixerTrackKey, 0, n)
	for i := 0; i < n; i++ {
		k, err := mx.AddTrack()
		if err != nil {
			t.Fatalf("AddTrack: %v", err)
		}
		keysUsed = append(keysUsed, k)
		sign := float32(1)
		if i%2 == 1 {
			sign = -1
		}
		buf := make([]float32, window*2)
		for j := range buf {
			buf[j] = sign * 0.37
		}
		bufs.bufs[k] = buf
	}
	mx.Apply()

	out := mx.Render(window, bufs)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: expected exact zero summing %d signals and their negations, got %v", i, n, v)
		}
	}
	_ = keysUsed
}

func TestAddDeleteTrack(t *testing.T) {
	mx := New(44100, 16)
	k, err := mx.AddTrack()
	if err != nil {
		t.Fatalf("AddTrack: %v", err)
	}
	if !mx.HasTrack(k) {
		t.Fatal("expected track to be present after AddTrack")
	}
	if err := mx.DeleteTrack(k); err != nil {
		t.Fatalf("DeleteTrack: %v", err)
	}
	if mx.HasTrack(k) {
		t.Fatal("expected track to be gone after DeleteTrack")
	}
	if _, err := mx.TrackHandle(k); err == nil {
		t.Fatal("expected TrackHandle to fail for deleted key")
	}
}

func TestReconstructTrackPreservesKeyVolumeAndPan(t *testing.T) {
	mx := New(44100, 16)
	k, err := mx.AddTrack()
	if err != nil {
		t.Fatalf("AddTrack: %v", err)
	}
	if err := mx.DeleteTrack(k); err != nil {
		t.Fatalf("DeleteTrack: %v", err)
	}

	if err := mx.ReconstructTrack(k, 0.3, -0.7); err != nil {
		t.Fatalf("ReconstructTrack: %v", err)
	}
	tr, err := mx.TrackHandle(k)
	if err != nil {
		t.Fatalf("TrackHandle after reconstruct: %v", err)
	}
	if tr.Volume() != 0.3 || tr.Pan() != -0.7 {
		t.Errorf("expected reconstructed track to carry its saved volume/pan, got vol=%v pan=%v", tr.Volume(), tr.Pan())
	}

	if err := mx.ReconstructTrack(k, 0, 0); err == nil {
		t.Fatal("expected Reconstruct of a still-live key to fail")
	}
}

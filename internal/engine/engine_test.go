package engine

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"daw-engine/internal/timeline"
)

// TestMain verifies that no test in this package leaves the dummy
// output sink's pacing goroutine running past Close.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStartStopLifecycle(t *testing.T) {
	e := Empty(testConfig())
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// starting twice is a no-op, not an error
	if err := e.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// closing an already-closed engine is a no-op
	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestPlayPauseAndJump(t *testing.T) {
	e := Empty(testConfig())
	if e.PlayheadPosition() != 0 {
		t.Fatalf("expected playhead to start at 0")
	}
	e.Play()
	e.Pause()
	if err := e.JumpTo(timeline.Beats(4)); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	if got := e.PlayheadPosition(); got != timeline.Beats(4) {
		t.Errorf("expected playhead at beats(4), got %v", got)
	}
}

func TestBPMCentsRoundTrip(t *testing.T) {
	e := Empty(testConfig())
	e.SetBPMCents(9000)
	if got := e.BPMCents(); got != 9000 {
		t.Errorf("expected 9000 centi-bpm, got %v", got)
	}
}

func TestAddAndDeleteAudioTrackReleasesBothHalves(t *testing.T) {
	e := Empty(testConfig())
	k, err := e.AddAudioTrack()
	if err != nil {
		t.Fatalf("AddAudioTrack: %v", err)
	}
	tk, err := e.TimelineKeyOf(k)
	if err != nil {
		t.Fatalf("TimelineKeyOf: %v", err)
	}
	mk, err := e.MixerKeyOf(k)
	if err != nil {
		t.Fatalf("MixerKeyOf: %v", err)
	}

	if _, err := e.DeleteAudioTrack(k); err != nil {
		t.Fatalf("DeleteAudioTrack: %v", err)
	}
	if e.HasAudioTrack(k) {
		t.Error("expected audio track to be gone")
	}
	if e.timeline.HasTrack(tk) {
		t.Error("expected timeline track to be gone")
	}
	if e.mixerBus.HasTrack(mk) {
		t.Error("expected mixer track to be gone")
	}
}

func TestReconstructAudioTrackRestoresOriginalKeys(t *testing.T) {
	e := Empty(testConfig())
	k, err := e.AddAudioTrack()
	if err != nil {
		t.Fatalf("AddAudioTrack: %v", err)
	}
	mk, err := e.MixerKeyOf(k)
	if err != nil {
		t.Fatalf("MixerKeyOf: %v", err)
	}
	mt, err := e.MixerTrack(mk)
	if err != nil {
		t.Fatalf("MixerTrack: %v", err)
	}
	mt.SetVolume(0.4)
	mt.SetPan(-0.5)

	state, err := e.DeleteAudioTrack(k)
	if err != nil {
		t.Fatalf("DeleteAudioTrack: %v", err)
	}
	if e.HasAudioTrack(k) {
		t.Fatal("expected track to be deleted before reconstruction")
	}

	if err := e.ReconstructAudioTrack(state); err != nil {
		t.Fatalf("ReconstructAudioTrack: %v", err)
	}
	if !e.HasAudioTrack(k) {
		t.Fatal("expected reconstructed track to reuse its original key")
	}
	tk2, _ := e.TimelineKeyOf(k)
	mk2, _ := e.MixerKeyOf(k)
	if tk2 != state.TimelineKey || mk2 != state.MixerKey {
		t.Errorf("expected reconstructed bindings to match original, got tk=%v mk=%v", tk2, mk2)
	}
	mt2, err := e.MixerTrack(mk2)
	if err != nil {
		t.Fatalf("MixerTrack after reconstruct: %v", err)
	}
	if mt2.Volume() != 0.4 || mt2.Pan() != -0.5 {
		t.Errorf("expected reconstructed track to keep its volume/pan, got vol=%v pan=%v", mt2.Volume(), mt2.Pan())
	}
}

func TestMasterTrackAlwaysPresent(t *testing.T) {
	e := Empty(testConfig())
	m := e.Master()
	if m == nil {
		t.Fatal("expected a non-nil master track")
	}
	m.SetVolume(0.8)
	if e.Master().Volume() != 0.8 {
		t.Error("expected master volume change to stick")
	}
}

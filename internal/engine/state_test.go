package engine

import (
	"sort"
	"testing"

	"daw-engine/internal/timeline"
)

func TestStateRoundTripRebuildsEquivalentEngine(t *testing.T) {
	e := Empty(testConfig())
	e.SetBPMCents(9500)

	path := writeMonoWAV(t, 4410, 1000, 44100)
	stored, err := e.ImportClip(path)
	if err != nil {
		t.Fatalf("ImportClip: %v", err)
	}

	ak, err := e.AddAudioTrack()
	if err != nil {
		t.Fatalf("AddAudioTrack: %v", err)
	}
	tk, _ := e.TimelineKeyOf(ak)
	mk, _ := e.MixerKeyOf(ak)

	mt, err := e.MixerTrack(mk)
	if err != nil {
		t.Fatalf("MixerTrack: %v", err)
	}
	mt.SetVolume(0.6)
	mt.SetPan(0.25)

	length := timeline.Beats(2)
	ck, err := e.AddTimelineClip(tk, stored, timeline.Beats(1), &length)
	if err != nil {
		t.Fatalf("AddTimelineClip: %v", err)
	}

	snapshot := e.State()

	restored, err := FromState(testConfig(), snapshot)
	if err != nil {
		t.Fatalf("FromState: %v", err)
	}

	if restored.BPMCents() != 9500 {
		t.Errorf("expected BPM 9500 after restore, got %v", restored.BPMCents())
	}
	if !restored.HasAudioTrack(ak) {
		t.Fatalf("expected audio track %v to survive round trip", ak)
	}
	rtk, _ := restored.TimelineKeyOf(ak)
	rmk, _ := restored.MixerKeyOf(ak)
	if rtk != tk || rmk != mk {
		t.Errorf("expected bindings to be preserved, got tk=%v mk=%v", rtk, rmk)
	}

	rmt, err := restored.MixerTrack(rmk)
	if err != nil {
		t.Fatalf("MixerTrack on restored engine: %v", err)
	}
	if rmt.Volume() != 0.6 || rmt.Pan() != 0.25 {
		t.Errorf("expected restored track to keep volume/pan, got vol=%v pan=%v", rmt.Volume(), rmt.Pan())
	}

	clipState, err := restored.TimelineClip(ck)
	if err != nil {
		t.Fatalf("TimelineClip on restored engine: %v", err)
	}
	if clipState.Start != timeline.Beats(1) || *clipState.Length != timeline.Beats(2) {
		t.Errorf("expected restored clip placement to match original, got start=%v length=%v", clipState.Start, *clipState.Length)
	}

	originalKeys := sort.IntSlice{int(ak)}
	restoredKeys := sort.IntSlice{}
	for _, k := range restored.AllAudioTracks() {
		restoredKeys = append(restoredKeys, int(k))
	}
	sort.Sort(originalKeys)
	sort.Sort(restoredKeys)
	if len(originalKeys) != len(restoredKeys) || originalKeys[0] != restoredKeys[0] {
		t.Errorf("expected restored audio-track set to match original, got %v want %v", restoredKeys, originalKeys)
	}
}

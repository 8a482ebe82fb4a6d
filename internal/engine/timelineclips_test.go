package engine

import (
	"testing"

	"daw-engine/internal/keys"
	"daw-engine/internal/timeline"
)

func addTrackAndClip(t *testing.T, e *Engine, start timeline.Timestamp, length timeline.Timestamp) (track keys.TimelineTrackKey, clip keys.TimelineClipKey) {
	t.Helper()
	ak, err := e.AddAudioTrack()
	if err != nil {
		t.Fatalf("AddAudioTrack: %v", err)
	}
	tk, err := e.TimelineKeyOf(ak)
	if err != nil {
		t.Fatalf("TimelineKeyOf: %v", err)
	}
	stored, err := e.ImportClip(writeMonoWAV(t, 44100, 1000, 44100))
	if err != nil {
		t.Fatalf("ImportClip: %v", err)
	}
	ck, err := e.AddTimelineClip(tk, stored, start, &length)
	if err != nil {
		t.Fatalf("AddTimelineClip: %v", err)
	}
	return tk, ck
}

func TestAddTimelineClipAndReadBack(t *testing.T) {
	e := Empty(testConfig())
	tk, ck := addTrackAndClip(t, e, timeline.Beats(0), timeline.Beats(2))

	state, err := e.TimelineClip(ck)
	if err != nil {
		t.Fatalf("TimelineClip: %v", err)
	}
	if state.Track != tk {
		t.Errorf("expected clip on track %v, got %v", tk, state.Track)
	}
	if state.Start != timeline.Beats(0) {
		t.Errorf("expected start at beats(0), got %v", state.Start)
	}
}

func TestOverlappingAddTimelineClipIsRejected(t *testing.T) {
	e := Empty(testConfig())
	ak, err := e.AddAudioTrack()
	if err != nil {
		t.Fatalf("AddAudioTrack: %v", err)
	}
	tk, _ := e.TimelineKeyOf(ak)
	stored, err := e.ImportClip(writeMonoWAV(t, 44100, 1000, 44100))
	if err != nil {
		t.Fatalf("ImportClip: %v", err)
	}

	lenA := timeline.Beats(2)
	if _, err := e.AddTimelineClip(tk, stored, timeline.Beats(0), &lenA); err != nil {
		t.Fatalf("first AddTimelineClip: %v", err)
	}
	lenB := timeline.Beats(2)
	if _, err := e.AddTimelineClip(tk, stored, timeline.Beats(1), &lenB); err == nil {
		t.Error("expected overlapping clip to be rejected")
	}
}

func TestDeleteAndReconstructTimelineClipPreservesKey(t *testing.T) {
	e := Empty(testConfig())
	_, k := addTrackAndClip(t, e, timeline.Beats(0), timeline.Beats(2))

	state, err := e.DeleteTimelineClip(k)
	if err != nil {
		t.Fatalf("DeleteTimelineClip: %v", err)
	}
	if _, err := e.TimelineClip(k); err == nil {
		t.Fatal("expected clip to be gone after delete")
	}

	if err := e.ReconstructTimelineClip(state); err != nil {
		t.Fatalf("ReconstructTimelineClip: %v", err)
	}
	got, err := e.TimelineClip(k)
	if err != nil {
		t.Fatalf("TimelineClip after reconstruct: %v", err)
	}
	if got.Start != state.Start || got.Track != state.Track {
		t.Errorf("expected reconstructed clip to match original state, got %+v want %+v", got, state)
	}
}

func TestMoveTimelineClipRollsBackOnRejectedMove(t *testing.T) {
	e := Empty(testConfig())
	ak, err := e.AddAudioTrack()
	if err != nil {
		t.Fatalf("AddAudioTrack: %v", err)
	}
	tk, _ := e.TimelineKeyOf(ak)
	stored, err := e.ImportClip(writeMonoWAV(t, 44100, 1000, 44100))
	if err != nil {
		t.Fatalf("ImportClip: %v", err)
	}

	lenA := timeline.Beats(1)
	a, err := e.AddTimelineClip(tk, stored, timeline.Beats(0), &lenA)
	if err != nil {
		t.Fatalf("add clip A: %v", err)
	}
	lenB := timeline.Beats(1)
	b, err := e.AddTimelineClip(tk, stored, timeline.Beats(5), &lenB)
	if err != nil {
		t.Fatalf("add clip B: %v", err)
	}

	// moving B onto A's span must be rejected, and B must still exist
	// at its original position afterward
	if err := e.MoveTimelineClip(b, timeline.Beats(0)); err == nil {
		t.Fatal("expected overlapping move to be rejected")
	}
	state, err := e.TimelineClip(b)
	if err != nil {
		t.Fatalf("expected clip B to survive a rejected move, got error: %v", err)
	}
	if state.Start != timeline.Beats(5) {
		t.Errorf("expected clip B to remain at beats(5), got %v", state.Start)
	}

	// a non-conflicting move succeeds
	if err := e.MoveTimelineClip(a, timeline.Beats(10)); err != nil {
		t.Fatalf("MoveTimelineClip: %v", err)
	}
	moved, err := e.TimelineClip(a)
	if err != nil {
		t.Fatalf("TimelineClip after move: %v", err)
	}
	if moved.Start != timeline.Beats(10) {
		t.Errorf("expected clip A at beats(10), got %v", moved.Start)
	}
}

func TestCropEndShortensLength(t *testing.T) {
	e := Empty(testConfig())
	_, k := addTrackAndClip(t, e, timeline.Beats(0), timeline.Beats(4))

	if err := e.CropEnd(k, timeline.Beats(2)); err != nil {
		t.Fatalf("CropEnd: %v", err)
	}
	got, err := e.TimelineClip(k)
	if err != nil {
		t.Fatalf("TimelineClip: %v", err)
	}
	if *got.Length != timeline.Beats(2) {
		t.Errorf("expected length beats(2) after CropEnd, got %v", *got.Length)
	}
}

package processor

import (
	"testing"

	"daw-engine/internal/clipreader"
	"daw-engine/internal/mixer"
	"daw-engine/internal/timeline"
)

// TestRenderAllocatesNothing exercises the full realtime render path —
// a same-rate clip, a resampled clip, a gap before playback starts, and
// a permanently silent track — and asserts Render performs zero heap
// allocations per call. This is the allocation-free discipline the
// audio world is required to uphold on every tick; any regression here
// (a clip reader, a track, or the processor itself reaching for make())
// should fail this test before it ever reaches a real output callback.
func TestRenderAllocatesNothing(t *testing.T) {
	const maxWindow = 512

	tl := timeline.New(44100, 12000, maxWindow)
	mx := mixer.New(44100, maxWindow)
	p := New(tl, mx, maxWindow, false)

	sameRateMixerTrack, err := mx.AddTrack()
	if err != nil {
		t.Fatalf("AddTrack (same-rate mixer): %v", err)
	}
	resampledMixerTrack, err := mx.AddTrack()
	if err != nil {
		t.Fatalf("AddTrack (resampled mixer): %v", err)
	}
	silentMixerTrack, err := mx.AddTrack()
	if err != nil {
		t.Fatalf("AddTrack (silent mixer): %v", err)
	}

	sameRateTrack, err := tl.AddTrack(sameRateMixerTrack)
	if err != nil {
		t.Fatalf("AddTrack (same-rate timeline): %v", err)
	}
	resampledTrack, err := tl.AddTrack(resampledMixerTrack)
	if err != nil {
		t.Fatalf("AddTrack (resampled timeline): %v", err)
	}
	if _, err := tl.AddTrack(silentMixerTrack); err != nil {
		t.Fatalf("AddTrack (silent timeline): %v", err)
	}

	sameRateFrames := make([]float32, 44100*4)
	for i := range sameRateFrames {
		sameRateFrames[i] = 1
	}
	sameRateReader := clipreader.New([][]float32{sameRateFrames}, 44100, 44100, maxWindow)
	sameRateClip := timeline.NewClip(sameRateReader, timeline.Beats(0), nil, 0, 44100, 44100, maxWindow)
	if _, err := tl.AddClip(sameRateTrack, sameRateClip); err != nil {
		t.Fatalf("AddClip (same-rate): %v", err)
	}

	resampledFrames := make([]float32, 22050*4)
	for i := range resampledFrames {
		resampledFrames[i] = 1
	}
	resampledReader := clipreader.New([][]float32{resampledFrames}, 22050, 44100, maxWindow)
	resampledClip := timeline.NewClip(resampledReader, timeline.Beats(0), nil, 0, 22050, 44100, maxWindow)
	if _, err := tl.AddClip(resampledTrack, resampledClip); err != nil {
		t.Fatalf("AddClip (resampled): %v", err)
	}

	p.Play()
	out := make([]float32, maxWindow*2)

	// Drain the pending AddTrack/AddClip controller events and warm every
	// lazily touched path once before measuring.
	p.Render(out, maxWindow)

	allocs := testing.AllocsPerRun(200, func() {
		p.Render(out, maxWindow)
	})
	if allocs != 0 {
		t.Fatalf("expected zero allocations per Render, got %v", allocs)
	}
}

package clipreader

import "testing"

func monoFrames(n int, fill func(i int) float32) [][]float32 {
	data := make([]float32, n)
	for i := range data {
		data[i] = fill(i)
	}
	return [][]float32{data}
}

func TestOutputNoResampleExpandsMono(t *testing.T) {
	frames := monoFrames(4, func(i int) float32 { return float32(i + 1) })
	r := New(frames, 44100, 44100, 16)

	out := r.Output(4)
	if len(out) != 8 {
		t.Fatalf("expected 8 interleaved samples, got %d", len(out))
	}
	for i := 0; i < 4; i++ {
		want := float32(i + 1)
		if out[i*2] != want || out[i*2+1] != want {
			t.Errorf("frame %d: expected duplicated %v, got [%v %v]", i, want, out[i*2], out[i*2+1])
		}
	}
}

func TestOutputPastEndReturnsShorterSlice(t *testing.T) {
	frames := monoFrames(3, func(i int) float32 { return 1 })
	r := New(frames, 44100, 44100, 16)

	out := r.Output(10)
	if len(out) != 6 {
		t.Fatalf("expected 3 frames (6 samples), got %d", len(out))
	}

	out2 := r.Output(10)
	if len(out2) != 0 {
		t.Fatalf("expected no samples after exhaustion, got %d", len(out2))
	}
}

func TestJumpClampsAndResetsPosition(t *testing.T) {
	frames := monoFrames(10, func(i int) float32 { return float32(i) })
	r := New(frames, 44100, 44100, 16)

	r.Jump(100)
	if r.Position() != 10 {
		t.Errorf("expected Jump to clamp to Len()=10, got %d", r.Position())
	}

	r.Jump(-5)
	if r.Position() != 0 {
		t.Errorf("expected Jump to clamp negative to 0, got %d", r.Position())
	}
}

func TestResamplingProducesOutput(t *testing.T) {
	frames := monoFrames(2048, func(i int) float32 { return float32(i%100) / 100 })
	r := New(frames, 44100, 48000, 512)

	total := 0
	for i := 0; i < 10; i++ {
		out := r.Output(512)
		if len(out) == 0 {
			break
		}
		total += len(out) / 2
	}
	if total == 0 {
		t.Fatal("expected resampled output to be produced")
	}
}

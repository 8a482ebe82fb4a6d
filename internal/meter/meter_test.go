package meter

import "testing"

func TestLongPeakLatchesForOneSecond(t *testing.T) {
	m := New()

	m.Report([]float32{6.4, 3.5}, 4)
	m.Report([]float32{0, 0}, 4)

	_, longPeak, _ := m.ReadRaw()
	if longPeak[0] != 6.4 || longPeak[1] != 3.5 {
		t.Fatalf("expected long-peak to still latch at [6.4 3.5], got %v", longPeak)
	}
}

func TestLongPeakDecaysAfterHoldExpires(t *testing.T) {
	m := New()

	m.Report([]float32{1, 1}, 4)
	// five windows of 1 frame at sampleRate 4 = 1.25 seconds elapsed,
	// past the 1-second hold, so long-peak tracks the new low.
	for i := 0; i < 5; i++ {
		m.Report([]float32{0, 0}, 4)
	}

	_, longPeak, _ := m.ReadRaw()
	if longPeak[0] != 0 || longPeak[1] != 0 {
		t.Fatalf("expected long-peak to decay to 0 after hold expires, got %v", longPeak)
	}
}

func TestReadRawMatchesReportedPeak(t *testing.T) {
	m := New()
	m.Report([]float32{-0.5, 0.25, 0.9, -0.9}, 44100)

	peak, _, _ := m.ReadRaw()
	if peak[0] != 0.9 {
		t.Errorf("expected left peak 0.9, got %v", peak[0])
	}
	if peak[1] != 0.9 {
		t.Errorf("expected right peak 0.9, got %v", peak[1])
	}
}

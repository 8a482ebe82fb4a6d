package mixer

import "testing"

func TestMovingAverageConvergesToConstant(t *testing.T) {
	a := NewMovingAverage(8, 0)
	const c = 0.42
	for i := 0; i < 8; i++ {
		a.Push(c)
	}
	if got := float32(a.Average()); got != float32(c) {
		t.Fatalf("expected average to equal %v after window fills, got %v", float32(c), got)
	}
}

func TestParameterSetIsVisibleNextCall(t *testing.T) {
	p := NewParameter(1.0, 4)
	p.Set(0.5)
	for i := 0; i < 4; i++ {
		p.Next()
	}
	if got := p.Next(); got != 0.5 {
		t.Fatalf("expected parameter to settle at 0.5, got %v", got)
	}
}

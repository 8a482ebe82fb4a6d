package mixer

import (
	"math"
	"sync/atomic"
)

// MovingAverage is a fixed-window moving average kept entirely in
// float64 to avoid accumulating truncation error across many pushes;
// only the final read narrows to float32.
type MovingAverage struct {
	history []float64
	idx     int
	sum     float64
}

// NewMovingAverage creates a moving average over windowSize samples,
// pre-filled with initial so the average starts at initial rather than
// ramping up from zero.
func NewMovingAverage(windowSize int, initial float64) *MovingAverage {
	if windowSize < 1 {
		windowSize = 1
	}
	a := &MovingAverage{history: make([]float64, windowSize)}
	for i := range a.history {
		a.history[i] = initial
	}
	a.sum = initial * float64(windowSize)
	return a
}

// Push records v as the newest sample and returns the updated average.
func (a *MovingAverage) Push(v float64) float64 {
	old := a.history[a.idx]
	a.history[a.idx] = v
	a.idx = (a.idx + 1) % len(a.history)
	a.sum += v - old
	return a.Average()
}

// Average returns the current average without pushing a new sample.
func (a *MovingAverage) Average() float64 {
	return a.sum / float64(len(a.history))
}

// Parameter is a controller-writable, processor-read value smoothed by
// a MovingAverage pushed once per output sample (not once per buffer).
// The controller's Set is a single atomic store; the realtime side's
// Next reads it and smooths — no lock, no allocation.
type Parameter struct {
	desired atomic.Uint32 // float32 bits
	avg     *MovingAverage
}

// NewParameter creates a parameter starting at, and smoothed around,
// initial.
func NewParameter(initial float32, windowSize int) *Parameter {
	p := &Parameter{avg: NewMovingAverage(windowSize, float64(initial))}
	p.desired.Store(math.Float32bits(initial))
	return p
}

// Set updates the desired value. Safe to call from the controller at
// any time.
func (p *Parameter) Set(v float32) {
	p.desired.Store(math.Float32bits(v))
}

// Get returns the desired (unsmoothed) value, e.g. for state snapshots.
func (p *Parameter) Get() float32 {
	return math.Float32frombits(p.desired.Load())
}

// Next pushes the current desired value into the moving average and
// returns the smoothed result. Must be called exactly once per output
// sample from the realtime goroutine.
func (p *Parameter) Next() float32 {
	v := float64(math.Float32frombits(p.desired.Load()))
	return float32(p.avg.Push(v))
}

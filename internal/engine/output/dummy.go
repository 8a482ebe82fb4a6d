package output

import (
	"context"
	"time"

	"daw-engine/internal/conf"
)

// dummySink drives the callback from a ticker instead of a real
// device, alternating 2048- and 1024-sample buffers on each tick — the
// same two buffer sizes the reference implementation's unthrottled
// dummy stream alternates between. Unlike the reference, which spins
// as fast as the CPU allows, this paces ticks to the buffer's real-time
// duration so a long-running headless engine doesn't peg a core.
type dummySink struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func newDummySink() *dummySink {
	return &dummySink{}
}

func (s *dummySink) Start(cfg *conf.EngineConfig, callback Callback) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	sampleRate := cfg.Audio.SampleRate
	buf := make([]float32, 2048*2)

	go func() {
		defer close(s.done)
		sizes := [2]int{2048, 1024}
		i := 0
		for {
			n := sizes[i]
			i = (i + 1) % len(sizes)

			period := time.Duration(float64(n) / float64(sampleRate) * float64(time.Second))
			t := time.NewTimer(period)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}

			callback(buf[:n*2], n)
		}
	}()
	return nil
}

func (s *dummySink) Stop() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	<-s.done
	return nil
}

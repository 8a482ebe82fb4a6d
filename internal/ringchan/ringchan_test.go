package ringchan

import "testing"

func TestSendReceiveOrder(t *testing.T) {
	ch := New[int](4)
	rv := ch.Receiver()

	ch.Send(1)
	ch.Send(2)
	ch.Send(3)

	for i, want := range []int{1, 2, 3} {
		got, ok := rv.Next()
		if !ok {
			t.Fatalf("Next() #%d: expected a value, got none", i)
		}
		if got != want {
			t.Errorf("Next() #%d = %d, want %d", i, got, want)
		}
	}

	if _, ok := rv.Next(); ok {
		t.Error("expected no more values after draining")
	}
}

func TestSendGrowsOnOverflow(t *testing.T) {
	ch := New[int](2)
	rv := ch.Receiver()

	// initial capacity of 2 reserves 1 sentinel slot, so only 1 value fits
	// before growth is required.
	const n = 50
	for i := 0; i < n; i++ {
		ch.Send(i)
	}

	for i := 0; i < n; i++ {
		got, ok := rv.Next()
		if !ok {
			t.Fatalf("Next() #%d: expected a value after growth, got none", i)
		}
		if got != i {
			t.Errorf("Next() #%d = %d, want %d", i, got, i)
		}
	}
}

func TestCapacityNeverBelowTwo(t *testing.T) {
	ch := New[int](0)
	if got := len(ch.cur.Load().slots); got < 2 {
		t.Errorf("expected capacity clamped to >= 2, got %d", got)
	}
}

package event

import (
	"sync"
	"testing"
)

func TestQueue_DrainPreservesPushOrder(t *testing.T) {
	q := NewQueue()
	want := []Event{
		KeyDown(65, false),
		Resize(800, 600),
		KeyUp(65),
		PointerMove(10, 20),
		Paint(),
	}
	for _, e := range want {
		q.Push(e)
	}

	got := q.Drain(nil)
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue after drain, got %d", q.Len())
	}
}

func TestQueue_DrainReusesBuffer(t *testing.T) {
	q := NewQueue()
	q.Push(Paint())
	buf := q.Drain(nil)

	q.Push(Resize(1, 2))
	buf = q.Drain(buf[:0])
	if len(buf) != 1 || buf[0] != Resize(1, 2) {
		t.Fatalf("expected only the second push, got %v", buf)
	}

	if got := q.Drain(buf[:0]); len(got) != 0 {
		t.Fatalf("expected nothing pending, got %v", got)
	}
}

func TestQueue_ConcurrentProducerLosesNothing(t *testing.T) {
	const total = 10000
	q := NewQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push(PointerMove(int32(i), 0))
		}
	}()

	var received []Event
	next := int32(0)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	drain := func() {
		received = q.Drain(received[:0])
		for _, e := range received {
			if e.X != next {
				t.Fatalf("expected pointer x %d, got %d", next, e.X)
			}
			next++
		}
	}

	for {
		select {
		case <-done:
			drain()
			if next != total {
				t.Fatalf("expected %d events, got %d", total, next)
			}
			return
		default:
			drain()
		}
	}
}

func TestEvent_Validity(t *testing.T) {
	if (Event{}).Valid() {
		t.Fatalf("zero event must be invalid")
	}
	if !KeyUp(1).Valid() {
		t.Fatalf("constructed event must be valid")
	}
	if Resize(0, 600).HasArea() {
		t.Fatalf("zero width resize must not have area")
	}
	if !Resize(1, 1).HasArea() {
		t.Fatalf("1x1 resize must have area")
	}
	if Paint().HasArea() {
		t.Fatalf("non-resize event must not report area")
	}
}

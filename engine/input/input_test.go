package input

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
)

func TestState_RepeatPressIsNoOp(t *testing.T) {
	var s State
	s.Press(ControlLeft, false)
	s.Press(ControlLeft, true)
	if !s.Left {
		t.Fatalf("expected left held after fresh press")
	}

	s.Release(ControlLeft)
	s.Press(ControlLeft, true)
	if s.Left {
		t.Fatalf("autorepeat after release must not latch the control")
	}
}

func TestState_MostRecentUpDownWins(t *testing.T) {
	controls := []Control{ControlForward, ControlBackward, ControlLeft, ControlRight}
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		var s State
		want := map[Control]bool{}
		for step := 0; step < 50; step++ {
			c := controls[rng.Intn(len(controls))]
			switch rng.Intn(3) {
			case 0:
				s.Press(c, false)
				want[c] = true
			case 1:
				s.Press(c, true)
			case 2:
				s.Release(c)
				want[c] = false
			}
		}
		for _, c := range controls {
			if s.Held(c) != want[c] {
				t.Fatalf("run %d: control %d expected held=%t, got %t", run, c, want[c], s.Held(c))
			}
		}
	}
}

func TestState_PointerDeltaAccumulatesAndResets(t *testing.T) {
	var s State
	s.MovePointer(100, 100)
	if dx, dy := s.ConsumePointer(); dx != 0 || dy != 0 {
		t.Fatalf("first position must only set the origin, got (%v, %v)", dx, dy)
	}

	s.MovePointer(110, 95)
	s.MovePointer(115, 90)
	dx, dy := s.ConsumePointer()
	if dx != 15 || dy != -10 {
		t.Fatalf("expected accumulated delta (15, -10), got (%v, %v)", dx, dy)
	}
	if dx, dy := s.ConsumePointer(); dx != 0 || dy != 0 {
		t.Fatalf("expected delta reset after consume, got (%v, %v)", dx, dy)
	}
}

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()
	if b.Lookup(common.KeyRight) != ControlRight || b.Lookup(common.KeyD) != ControlRight {
		t.Fatalf("expected D and Right arrow bound to ControlRight")
	}
	if b.Lookup(common.KeySpace) != ControlNone {
		t.Fatalf("expected space unbound")
	}
}

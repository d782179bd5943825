package simulation

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

const testTick = time.Second / 25

func TestIntegrator_DeterministicAcrossRuns(t *testing.T) {
	integ := NewIntegrator(testTick, WithGravity(2), WithFloor(0.5))
	in := &input.State{Forward: true, Left: true}
	look := LookDelta{DX: 3, DY: -2}

	run := func() Camera {
		cam := DefaultCamera(16.0 / 9.0)
		for i := 0; i < 500; i++ {
			integ.Step(&cam, in, look)
		}
		return cam
	}

	first := run()
	for i := 0; i < 5; i++ {
		if got := run(); got != first {
			t.Fatalf("run %d diverged:\n got %+v\nwant %+v", i, got, first)
		}
	}
}

func TestIntegrator_HalfStepPosition(t *testing.T) {
	integ := NewIntegrator(testTick)
	cam := DefaultCamera(1)
	start := cam.Position

	integ.Step(&cam, &input.State{Right: true}, LookDelta{})

	wantV := DefaultAcceleration * integ.DeltaTime()
	if !mgl32.FloatEqualThreshold(cam.Velocity.X(), wantV, 1e-6) {
		t.Fatalf("expected velocity x %v, got %v", wantV, cam.Velocity.X())
	}
	wantDX := 0.5 * integ.DeltaTime() * wantV
	if got := cam.Position.X() - start.X(); !mgl32.FloatEqualThreshold(got, wantDX, 1e-6) {
		t.Fatalf("expected half-step displacement %v, got %v", wantDX, got)
	}
}

func TestIntegrator_DampingMonotonicWithoutInput(t *testing.T) {
	integ := NewIntegrator(testTick)
	cam := DefaultCamera(1)
	cam.Velocity = mgl32.Vec3{2, 0, -1.5}
	idle := &input.State{}

	prev := cam.Velocity
	for i := 0; i < 200; i++ {
		integ.Step(&cam, idle, LookDelta{})
		v := cam.Velocity
		if v.Len() > prev.Len() {
			t.Fatalf("tick %d: speed increased from %v to %v", i, prev.Len(), v.Len())
		}
		if v.X() < 0 || v.Z() > 0 {
			t.Fatalf("tick %d: velocity overshot sign: %v", i, v)
		}
		prev = v
	}
	if prev.Len() >= 0.01 {
		t.Fatalf("expected velocity to decay toward zero, still %v", prev.Len())
	}
}

func TestIntegrator_BothHeldDamps(t *testing.T) {
	integ := NewIntegrator(testTick)
	cam := DefaultCamera(1)
	cam.Velocity = mgl32.Vec3{1, 0, 0}

	integ.Step(&cam, &input.State{Left: true, Right: true}, LookDelta{})

	want := 1 - integ.DeltaTime()
	if !mgl32.FloatEqualThreshold(cam.Velocity.X(), want, 1e-6) {
		t.Fatalf("expected damped velocity %v, got %v", want, cam.Velocity.X())
	}
}

func TestIntegrator_HoldRightForOneSecond(t *testing.T) {
	integ := NewIntegrator(testTick)
	cam := DefaultCamera(1)
	held := &input.State{Right: true}

	prevX := cam.Position.X()
	prevV := cam.Velocity.X()
	for i := 0; i < 25; i++ {
		integ.Step(&cam, held, LookDelta{})
		if cam.Position.X() <= prevX {
			t.Fatalf("tick %d: lateral position did not advance (%v -> %v)", i, prevX, cam.Position.X())
		}
		if cam.Velocity.X() <= prevV {
			t.Fatalf("tick %d: lateral speed did not grow (%v -> %v)", i, prevV, cam.Velocity.X())
		}
		prevX, prevV = cam.Position.X(), cam.Velocity.X()
	}

	// Holding a control applies no damping on its axis, so after one second the lateral speed is
	// bounded by acceleration * 1s.
	if !mgl32.FloatEqualThreshold(cam.Velocity.X(), DefaultAcceleration, 1e-4) {
		t.Fatalf("expected lateral speed %v after 1s, got %v", DefaultAcceleration, cam.Velocity.X())
	}
	if cam.Velocity.Y() != 0 || cam.Velocity.Z() != 0 {
		t.Fatalf("expected purely lateral velocity, got %v", cam.Velocity)
	}
}

func TestIntegrator_PolarLockHolds(t *testing.T) {
	integ := NewIntegrator(testTick)
	eps := integ.PolarEpsilon()

	for _, dy := range []float32{-50, 50, -400, 400} {
		cam := DefaultCamera(1)
		for i := 0; i < 300; i++ {
			integ.Step(&cam, &input.State{}, LookDelta{DX: 7, DY: dy})
			d := cam.Direction.Dot(WorldUp)
			if d > 1-eps || d < -(1-eps) {
				t.Fatalf("dy=%v tick %d: direction·up = %v exceeds 1-epsilon", dy, i, d)
			}
			if !mgl32.FloatEqualThreshold(cam.Direction.Len(), 1, 1e-4) {
				t.Fatalf("dy=%v tick %d: direction not unit length: %v", dy, i, cam.Direction.Len())
			}
		}
	}
}

func TestIntegrator_YawTurnsRight(t *testing.T) {
	integ := NewIntegrator(testTick)
	cam := DefaultCamera(1)
	startY := cam.Direction.Y()

	integ.Step(&cam, &input.State{}, LookDelta{DX: 100})

	if cam.Direction.X() <= 0 {
		t.Fatalf("expected positive pointer x to turn right, direction %v", cam.Direction)
	}
	if !mgl32.FloatEqualThreshold(cam.Direction.Y(), startY, 1e-5) {
		t.Fatalf("yaw must not change pitch: %v -> %v", startY, cam.Direction.Y())
	}
}

func TestIntegrator_MovementFollowsLookDirection(t *testing.T) {
	integ := NewIntegrator(testTick)
	cam := DefaultCamera(1)
	cam.Direction = mgl32.Vec3{1, -0.5, 0}.Normalize()

	integ.Step(&cam, &input.State{Forward: true}, LookDelta{})

	if cam.Velocity.X() <= 0 || cam.Velocity.Z() != 0 {
		t.Fatalf("expected forward motion along +X, got %v", cam.Velocity)
	}
}

func TestIntegrator_GravityAndFloor(t *testing.T) {
	integ := NewIntegrator(testTick, WithGravity(9.8), WithFloor(1))
	cam := DefaultCamera(1)

	for i := 0; i < 250; i++ {
		integ.Step(&cam, &input.State{}, LookDelta{})
		if cam.Position.Y() < 1 {
			t.Fatalf("tick %d: camera fell through floor: y=%v", i, cam.Position.Y())
		}
	}
	if cam.Position.Y() != 1 || cam.Velocity.Y() != 0 {
		t.Fatalf("expected camera resting on floor, got y=%v vy=%v", cam.Position.Y(), cam.Velocity.Y())
	}
}

func TestState_AdvanceCountsTicks(t *testing.T) {
	start := time.Unix(100, 0)
	s := NewState(1, start)
	integ := NewIntegrator(testTick)
	in := &input.State{}

	boundary := start
	for i := 0; i < 3; i++ {
		boundary = boundary.Add(testTick)
		s.Advance(in, LookDelta{}, integ, boundary)
	}
	if s.Tick != 3 || !s.UpdatedAt.Equal(boundary) {
		t.Fatalf("expected tick 3 at %v, got tick %d at %v", boundary, s.Tick, s.UpdatedAt)
	}

	snap := s
	s.Camera.Position[0] = 42
	if snap.Camera.Position[0] == 42 {
		t.Fatalf("state copy must not alias the original")
	}
}

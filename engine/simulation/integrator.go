package simulation

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultAcceleration is the movement acceleration in units per second squared.
	DefaultAcceleration float32 = 3.0

	// DefaultPolarEpsilon bounds how close the look direction may get to world up or down.
	DefaultPolarEpsilon float32 = 0.001

	// DefaultLookSensitivity is the look rotation in radians per pixel of pointer movement.
	DefaultLookSensitivity float32 = 0.002
)

// Acceleration is an extra acceleration contribution (units/s²) applied every tick, such as gravity.
type Acceleration func(cam *Camera) mgl32.Vec3

// Constraint adjusts the camera after position integration, such as a floor clamp.
type Constraint func(cam *Camera)

// LookDelta is the pointer movement, in pixels, applied as look rotation during one tick.
type LookDelta struct {
	DX, DY float32
}

// IsZero reports whether the delta has no movement.
func (l LookDelta) IsZero() bool {
	return l.DX == 0 && l.DY == 0
}

// Integrator advances a Camera by one fixed tick. It holds only configuration, so a single
// instance may be reused for any number of cameras and ticks with identical results.
type Integrator struct {
	dt float32

	acceleration    float32
	polarEpsilon    float32
	lookSensitivity float32

	accelerations []Acceleration
	constraints   []Constraint
}

// NewIntegrator creates an integrator for the given tick duration.
//
// Parameters:
//   - tick: the fixed duration of one simulation tick
//   - options: functional options for acceleration, gravity, floor and look tuning
//
// Returns:
//   - *Integrator: the configured integrator
func NewIntegrator(tick time.Duration, options ...IntegratorOption) *Integrator {
	in := &Integrator{
		dt:              float32(tick.Seconds()),
		acceleration:    DefaultAcceleration,
		polarEpsilon:    DefaultPolarEpsilon,
		lookSensitivity: DefaultLookSensitivity,
	}
	for _, opt := range options {
		opt(in)
	}
	return in
}

// DeltaTime returns the fixed per-tick delta in seconds.
func (in *Integrator) DeltaTime() float32 {
	return in.dt
}

// PolarEpsilon returns the configured polar-lock epsilon.
func (in *Integrator) PolarEpsilon() float32 {
	return in.polarEpsilon
}

// Step advances cam by one tick.
//
// Movement axes come from the look direction flattened onto the horizontal plane. For each axis
// pair, holding exactly one control accelerates along it, while holding neither or both damps the
// velocity component along that axis by dt*v. Position uses a half-step of the updated velocity.
//
// Parameters:
//   - cam: the camera to advance in place
//   - s: held controls for this tick
//   - look: pointer movement to turn into look rotation
func (in *Integrator) Step(cam *Camera, s *input.State, look LookDelta) {
	dt := in.dt
	forward, right := horizontalAxes(cam.Direction)

	var dv mgl32.Vec3
	dv = dv.Add(in.axisDelta(cam.Velocity, right, s.Right, s.Left))
	dv = dv.Add(in.axisDelta(cam.Velocity, forward, s.Forward, s.Backward))
	for _, accel := range in.accelerations {
		dv = dv.Add(accel(cam).Mul(dt))
	}

	cam.Velocity = cam.Velocity.Add(dv)
	cam.Position = cam.Position.Add(cam.Velocity.Mul(0.5 * dt))

	for _, constrain := range in.constraints {
		constrain(cam)
	}

	if !look.IsZero() {
		cam.Direction = in.rotate(cam, look)
	}
}

// axisDelta returns the velocity change along axis for one tick.
func (in *Integrator) axisDelta(v, axis mgl32.Vec3, positive, negative bool) mgl32.Vec3 {
	switch {
	case positive && !negative:
		return axis.Mul(in.acceleration * in.dt)
	case negative && !positive:
		return axis.Mul(-in.acceleration * in.dt)
	default:
		return axis.Mul(-in.dt * v.Dot(axis))
	}
}

// rotate applies pitch around the camera right axis and then yaw around world up.
// When the pitched result comes within epsilon of a pole, pitch is dropped for this tick.
func (in *Integrator) rotate(cam *Camera, look LookDelta) mgl32.Vec3 {
	yaw := mgl32.QuatRotate(-look.DX*in.lookSensitivity, WorldUp)

	pitched := cam.Direction
	if right := cam.Right(); right != (mgl32.Vec3{}) && look.DY != 0 {
		pitched = mgl32.QuatRotate(-look.DY*in.lookSensitivity, right).Rotate(cam.Direction)
	}

	if abs(pitched.Dot(WorldUp)) > 1-in.polarEpsilon || crossedPole(cam.Direction, pitched) {
		pitched = cam.Direction
	}
	return yaw.Rotate(pitched).Normalize()
}

// crossedPole reports whether a pitch rotation carried the direction over the top or bottom,
// which shows up as the horizontal heading flipping.
func crossedPole(before, after mgl32.Vec3) bool {
	return before.X()*after.X()+before.Z()*after.Z() < 0
}

// horizontalAxes returns the unit forward and right movement axes for a look direction.
// Both are zero when the direction has no horizontal component.
func horizontalAxes(direction mgl32.Vec3) (forward, right mgl32.Vec3) {
	flat := mgl32.Vec3{direction.X(), 0, direction.Z()}
	if flat.Len() < 1e-6 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	forward = flat.Normalize()
	right = forward.Cross(WorldUp).Normalize()
	return forward, right
}

// Gravity returns a constant downward acceleration contribution.
//
// Parameters:
//   - g: gravitational acceleration in units per second squared (positive pulls down)
//
// Returns:
//   - Acceleration: the contribution
func Gravity(g float32) Acceleration {
	pull := mgl32.Vec3{0, -g, 0}
	return func(*Camera) mgl32.Vec3 {
		return pull
	}
}

// Floor returns a constraint that keeps the camera at or above height, zeroing vertical
// velocity whenever it clamps.
//
// Parameters:
//   - height: the minimum camera Y
//
// Returns:
//   - Constraint: the floor clamp
func Floor(height float32) Constraint {
	return func(cam *Camera) {
		if cam.Position[1] < height {
			cam.Position[1] = height
			cam.Velocity[1] = 0
		}
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

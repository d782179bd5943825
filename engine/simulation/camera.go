// Package simulation holds the camera state advanced by the fixed-timestep integrator.
// Every type in this package is a plain value: copying a State yields a snapshot with no aliasing
// back to the original.
package simulation

import (
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the world-space up axis.
var WorldUp = mgl32.Vec3{0, 1, 0}

// openGLToWGPU remaps OpenGL clip-space depth [-1, 1] to the WebGPU range [0, 1].
// Column-major, like every mgl32.Mat4.
var openGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is the simulated viewer: pose, velocity and projection parameters.
type Camera struct {
	// Position is the eye position in world space.
	Position mgl32.Vec3
	// Direction is the unit look direction.
	Direction mgl32.Vec3
	// Up is the unit up vector used to build the view matrix.
	Up mgl32.Vec3
	// Velocity is in world units per second.
	Velocity mgl32.Vec3

	// Aspect is width / height of the viewport.
	Aspect float32
	// FovY is the vertical field of view in degrees.
	FovY float32
	// Near and Far are the clipping plane distances.
	Near float32
	Far  float32
}

// DefaultCamera returns the startup pose: four units up, eight back, looking toward the origin.
//
// Parameters:
//   - aspect: initial viewport aspect ratio
//
// Returns:
//   - Camera: the default camera
func DefaultCamera(aspect float32) Camera {
	return Camera{
		Position:  mgl32.Vec3{0, 4, 8},
		Direction: mgl32.Vec3{0, -1, -2}.Normalize(),
		Up:        WorldUp,
		Aspect:    aspect,
		FovY:      45,
		Near:      0.1,
		Far:       100,
	}
}

// ViewMatrix builds the right-handed view matrix looking along Direction.
func (c Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Direction), c.Up)
}

// ProjectionMatrix builds the perspective projection in WebGPU clip space.
func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	return openGLToWGPU.Mul4(mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far))
}

// ViewProjection returns projection * view, ready for upload to the camera uniform.
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Right returns the unit vector pointing to the camera's right, or the zero vector when the
// direction is parallel to Up.
func (c Camera) Right() mgl32.Vec3 {
	r := c.Direction.Cross(c.Up)
	if r.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return r.Normalize()
}

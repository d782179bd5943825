package simulation

// IntegratorOption is a functional option for configuring an Integrator.
type IntegratorOption func(*Integrator)

// WithAcceleration sets the movement acceleration magnitude.
//
// Parameters:
//   - accel: acceleration in units per second squared
//
// Returns:
//   - IntegratorOption: option function to apply
func WithAcceleration(accel float32) IntegratorOption {
	return func(in *Integrator) {
		in.acceleration = accel
	}
}

// WithPolarEpsilon sets how close to straight up or down the look direction may rotate.
// Values <= 0 keep the default.
//
// Parameters:
//   - epsilon: the polar-lock epsilon
//
// Returns:
//   - IntegratorOption: option function to apply
func WithPolarEpsilon(epsilon float32) IntegratorOption {
	return func(in *Integrator) {
		if epsilon > 0 {
			in.polarEpsilon = epsilon
		}
	}
}

// WithLookSensitivity sets the look rotation per pixel of pointer movement.
//
// Parameters:
//   - radiansPerPixel: rotation applied for each pixel of pointer delta
//
// Returns:
//   - IntegratorOption: option function to apply
func WithLookSensitivity(radiansPerPixel float32) IntegratorOption {
	return func(in *Integrator) {
		in.lookSensitivity = radiansPerPixel
	}
}

// WithGravity adds a constant downward acceleration. A zero value adds nothing.
//
// Parameters:
//   - g: gravitational acceleration in units per second squared
//
// Returns:
//   - IntegratorOption: option function to apply
func WithGravity(g float32) IntegratorOption {
	return func(in *Integrator) {
		if g != 0 {
			in.accelerations = append(in.accelerations, Gravity(g))
		}
	}
}

// WithFloor clamps the camera height to a minimum.
//
// Parameters:
//   - height: the minimum camera Y
//
// Returns:
//   - IntegratorOption: option function to apply
func WithFloor(height float32) IntegratorOption {
	return func(in *Integrator) {
		in.constraints = append(in.constraints, Floor(height))
	}
}

// WithAccelerationSource adds a custom acceleration contribution.
//
// Parameters:
//   - a: the contribution evaluated every tick
//
// Returns:
//   - IntegratorOption: option function to apply
func WithAccelerationSource(a Acceleration) IntegratorOption {
	return func(in *Integrator) {
		in.accelerations = append(in.accelerations, a)
	}
}

// WithConstraint adds a custom post-integration constraint.
//
// Parameters:
//   - c: the constraint applied every tick
//
// Returns:
//   - IntegratorOption: option function to apply
func WithConstraint(c Constraint) IntegratorOption {
	return func(in *Integrator) {
		in.constraints = append(in.constraints, c)
	}
}

package dispatcher

// DispatcherBuilderOption is a functional option for configuring a Dispatcher.
type DispatcherBuilderOption func(*Dispatcher)

// WithMouseLook routes pointer movement to the simulation queue as well as the render queue,
// letting the pointer steer the camera.
//
// Parameters:
//   - enabled: whether pointer movement drives the look direction
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithMouseLook(enabled bool) DispatcherBuilderOption {
	return func(d *Dispatcher) {
		d.mouseLook = enabled
	}
}

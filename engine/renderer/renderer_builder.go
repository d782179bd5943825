package renderer

import "github.com/Carmen-Shannon/automation/tools/worker"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync, Uncapped, or Mailbox)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count.
// WebGPU guarantees support for MSAAOff (1) and MSAA4x (4).
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces the use of a fallback (software) adapter.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceSoftware = force
	}
}

// WithInstanceGrid sets the instance grid dimensions.
//
// Parameters:
//   - size: instances per row; the grid holds size*size cubes
//   - spacing: distance between neighbouring cubes
//
// Returns:
//   - RendererBuilderOption: a function that applies the grid option to a renderer
func WithInstanceGrid(size int, spacing float32) RendererBuilderOption {
	return func(r *renderer) {
		r.gridSize = size
		r.gridSpacing = spacing
	}
}

// WithWorkerPool packs the instance grid on an existing pool instead of a new one.
//
// Parameters:
//   - pool: the pool to submit row tasks to
//
// Returns:
//   - RendererBuilderOption: a function that applies the pool option to a renderer
func WithWorkerPool(pool worker.DynamicWorkerPool) RendererBuilderOption {
	return func(r *renderer) {
		r.pool = pool
	}
}

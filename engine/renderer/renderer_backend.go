package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing. Always supported.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped

	// PresentModeMailbox replaces the queued frame with each new one and presents on vertical
	// blank. No tearing, low latency, not supported everywhere.
	PresentModeMailbox
)

// ParsePresentMode maps a configuration name onto a PresentMode.
//
// Parameters:
//   - name: "fifo", "immediate" or "mailbox"
//
// Returns:
//   - PresentMode: the matching mode, PresentModeVSync for unknown names
func ParsePresentMode(name string) PresentMode {
	switch name {
	case "immediate":
		return PresentModeUncapped
	case "mailbox":
		return PresentModeMailbox
	default:
		return PresentModeVSync
	}
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU side of the Renderer. Every method is called from the render
// goroutine only.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and the attachments sized to it.
	// This is required when the surface size changes or the surface was lost.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: error if the surface or its attachments could not be created
	ConfigureSurface(width, height int) error

	// InitMesh uploads the vertex and index data of the drawn mesh.
	//
	// Parameters:
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: error if the buffers could not be created
	InitMesh(vertexData, indexData []byte, indexCount int) error

	// InitInstances uploads the per-instance model matrices.
	//
	// Parameters:
	//   - instanceData: the raw instance bytes
	//   - count: the number of instances
	//
	// Returns:
	//   - error: error if the buffer could not be created
	InitInstances(instanceData []byte, count int) error

	// WriteCamera queues an upload of the camera uniform.
	//
	// Parameters:
	//   - data: the marshalled GPUCameraUniform
	WriteCamera(data []byte)

	// DrawFrame acquires the next surface texture, draws every instance and presents.
	//
	// Parameters:
	//   - clear: the background colour
	//
	// Returns:
	//   - error: a surface sentinel for recoverable failures, any other error is fatal
	DrawFrame(clear wgpu.Color) error

	// Release frees every GPU resource.
	Release()
}

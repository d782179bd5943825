package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/simulation"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pointer coordinates are normalized against this resolution when tinting the background.
const (
	pointerColorWidth  = 2560
	pointerColorHeight = 1440
)

// defaultClearColor is the background before the pointer first moves.
var defaultClearColor = wgpu.Color{R: 0.2, G: 0.5, B: 0.3, A: 1.0}

// renderer implements the Renderer interface.
// It is owned by the render goroutine and is not safe for concurrent use.
type renderer struct {
	backend       RendererBackend
	backendType   RendererBackendType
	presentMode   PresentMode
	sampleCount   MSAASampleCount
	forceSoftware bool

	gridSize    int
	gridSpacing float32
	gridWorkers int
	pool        worker.DynamicWorkerPool

	width      int
	height     int
	configured bool

	camera      GPUCameraUniform
	cameraDirty bool

	clearColor wgpu.Color
}

// Surface is the window side of the renderer: something a WebGPU surface can be created on.
type Surface interface {
	// SurfaceDescriptor returns the platform surface descriptor for the window.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the drawable width in pixels.
	Width() int

	// Height returns the drawable height in pixels.
	Height() int
}

// Renderer draws the instanced cube grid from the most recent camera it was given.
// All methods must be called from the goroutine that created it.
type Renderer interface {
	// UpdateCamera replaces the camera used by the following frames.
	// The uniform is uploaded lazily by the next Render.
	//
	// Parameters:
	//   - cam: the camera taken from the latest simulation snapshot
	UpdateCamera(cam simulation.Camera)

	// Resize records a new surface size. Zero-area sizes are ignored, the surface keeps its
	// previous configuration until a usable size arrives. The surface is reconfigured by the
	// next Render.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPointer tints the background from a pointer position in window pixels.
	//
	// Parameters:
	//   - x, y: the pointer position
	SetPointer(x, y int32)

	// Render draws and presents one frame. Surface errors (ErrSurfaceLost, ErrSurfaceOutdated,
	// ErrSurfaceTimeout) cost only this frame; any other error is fatal.
	//
	// Returns:
	//   - error: nil when the frame was presented or there was nothing to draw
	Render() error

	// Reconfigure rebuilds the surface at the current size, recovering from a lost or outdated
	// surface.
	//
	// Returns:
	//   - error: error if the surface could not be configured
	Reconfigure() error

	// Size returns the surface size the renderer draws at.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// ClearColor returns the current background colour.
	//
	// Returns:
	//   - wgpu.Color: the clear colour
	ClearColor() wgpu.Color

	// Release frees every GPU resource held by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing to the given surface.
// It creates the GPU device, uploads the cube mesh and instance grid and configures the surface
// when it has a non-zero size. It must be called on the thread that owns the window; afterwards
// the renderer may be handed to a single other goroutine, which becomes its only user.
//
// Parameters:
//   - backendType: which GPU backend to use
//   - surface: the window to draw into
//   - options: functional options for renderer configuration
//
// Returns:
//   - Renderer: the new renderer
//   - error: error if the GPU could not be initialized
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	switch backendType {
	case BackendTypeWGPU:
		backend, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceSoftware, r.sampleCount, r.presentMode)
		if err != nil {
			return nil, fmt.Errorf("failed to create renderer backend: %w", err)
		}
		r.backend = backend
	default:
		return nil, fmt.Errorf("unknown renderer backend type %d", backendType)
	}

	if err := r.init(surface.Width(), surface.Height()); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// newRenderer applies options over the defaults without touching the GPU.
func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		backendType: backendType,
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		gridSize:    10,
		gridSpacing: 3,
		gridWorkers: runtime.NumCPU(),
		clearColor:  defaultClearColor,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// init uploads the static geometry and performs the first surface configuration.
func (r *renderer) init(width, height int) error {
	vertices, indices := CubeMesh()
	if err := r.backend.InitMesh(common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		return fmt.Errorf("failed to upload cube mesh: %w", err)
	}

	if r.pool == nil {
		r.pool = worker.NewDynamicWorkerPool(r.gridWorkers, 256, time.Second)
	}
	instances := BuildInstanceGrid(r.pool, r.gridSize, r.gridSpacing)
	if err := r.backend.InitInstances(common.SliceToBytes(instances), len(instances)); err != nil {
		return fmt.Errorf("failed to upload instance grid: %w", err)
	}

	r.Resize(width, height)
	if r.width > 0 && r.height > 0 {
		return r.Reconfigure()
	}
	return nil
}

func (r *renderer) UpdateCamera(cam simulation.Camera) {
	r.camera = NewGPUCameraUniform(cam)
	r.cameraDirty = true
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height
	r.configured = false
}

func (r *renderer) SetPointer(x, y int32) {
	r.clearColor = PointerColor(x, y)
}

func (r *renderer) Render() error {
	if r.width == 0 || r.height == 0 {
		return nil
	}
	if !r.configured {
		if err := r.Reconfigure(); err != nil {
			return err
		}
	}
	if r.cameraDirty {
		r.backend.WriteCamera(r.camera.Marshal())
		r.cameraDirty = false
	}

	err := r.backend.DrawFrame(r.clearColor)
	if NeedsReconfigure(err) {
		r.configured = false
	}
	return err
}

func (r *renderer) Reconfigure() error {
	if r.width == 0 || r.height == 0 {
		return nil
	}
	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		return fmt.Errorf("failed to configure surface at %dx%d: %w", r.width, r.height, err)
	}
	r.configured = true
	return nil
}

func (r *renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *renderer) ClearColor() wgpu.Color {
	return r.clearColor
}

func (r *renderer) Release() {
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}

// PointerColor maps a pointer position to a background colour: red follows x, green follows y
// and blue grows with their product.
//
// Parameters:
//   - x, y: the pointer position in window pixels
//
// Returns:
//   - wgpu.Color: the opaque background colour
func PointerColor(x, y int32) wgpu.Color {
	fx, fy := float64(x), float64(y)
	return wgpu.Color{
		R: fx / pointerColorWidth,
		G: fy / pointerColorHeight,
		B: 0.5 + 0.25*fx*fy/(pointerColorWidth*pointerColorHeight),
		A: 1.0,
	}
}

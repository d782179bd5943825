package engine

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/config"
	"github.com/Carmen-Shannon/oxy-view/engine/clock"
	"github.com/Carmen-Shannon/oxy-view/engine/dispatcher"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/simulation"
	"github.com/Carmen-Shannon/oxy-view/engine/snapshot"
	"github.com/Carmen-Shannon/oxy-view/engine/thread"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// RendererFactory creates the renderer for a window. It is called once, on the main thread,
// before the drivers start; the render goroutine is its only user afterwards.
type RendererFactory func(w window.Window) (Renderer, error)

// Renderer is what the engine needs from a renderer: frame submission plus release on shutdown.
type Renderer interface {
	frameRenderer
	Release()
}

// engine implements the Engine interface.
// Coordinates the window thread, the simulation goroutine and the render goroutine.
type engine struct {
	cfg    config.Config
	clock  clock.Clock
	window window.Window

	dispatcher  *dispatcher.Dispatcher
	simQueue    *event.Queue
	renderQueue *event.Queue
	snapshots   *snapshot.Channel[simulation.State]

	newRenderer      RendererFactory
	profilingEnabled bool

	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	errMu sync.Mutex
	err   error
}

// Engine is the main entry point for the viewer.
// It wires the window to the dispatcher, runs the simulation and render drivers on their own
// goroutines and pumps window messages on the calling thread.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Dispatcher returns the dispatcher receiving the window's events.
	//
	// Returns:
	//   - *dispatcher.Dispatcher: the dispatcher
	Dispatcher() *dispatcher.Dispatcher

	// Run starts both drivers and pumps window messages until the window closes, Quit is called
	// or the renderer fails. It must be called from the thread that created the window.
	//
	// Returns:
	//   - error: the fatal error that ended the run, nil on a normal close
	Run() error

	// Quit signals all engine goroutines to stop and closes the window.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The dispatcher is bound to the window here, so events arriving before Run installs the queues
// are dropped rather than queued.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		cfg:         config.Default(),
		clock:       clock.System(),
		simQueue:    event.NewQueue(),
		renderQueue: event.NewQueue(),
		snapshots:   snapshot.NewChannel[simulation.State](),
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	e.profilingEnabled = e.profilingEnabled || e.cfg.Debug.Profile

	if e.dispatcher == nil {
		e.dispatcher = dispatcher.NewDispatcher(dispatcher.WithMouseLook(e.cfg.Input.MouseLook))
	}
	if e.newRenderer == nil {
		e.newRenderer = e.defaultRenderer
	}
	if e.window != nil {
		e.dispatcher.Bind(e.window)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Dispatcher() *dispatcher.Dispatcher {
	return e.dispatcher
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}

	r, err := e.newRenderer(e.window)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	sim := e.newSimulationDriver()
	render := e.newRenderDriver(r)
	e.dispatcher.Install(e.simQueue, e.renderQueue)

	// The window thread is the only one allowed to close the window, so it polls for quit.
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})

	e.wg.Add(2)
	go e.handleSimulation(sim)
	go e.handleRender(render, r)

	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	if err := e.window.Close(); err != nil {
		log.Printf("[Engine] closing window: %v", err)
	}
	return e.fatalErr()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// fail records the first fatal error and signals quit.
func (e *engine) fail(err error) {
	e.errMu.Lock()
	if e.err == nil {
		e.err = err
	}
	e.errMu.Unlock()
	e.signalQuit()
}

func (e *engine) fatalErr() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

func (e *engine) aspect() float32 {
	w, h := e.window.Width(), e.window.Height()
	if w <= 0 || h <= 0 {
		return float32(e.cfg.Window.Width) / float32(e.cfg.Window.Height)
	}
	return float32(w) / float32(h)
}

func (e *engine) newSimulationDriver() *simulationDriver {
	sc := e.cfg.Simulation
	opts := []simulation.IntegratorOption{
		simulation.WithAcceleration(sc.Acceleration),
		simulation.WithPolarEpsilon(sc.PolarEpsilon),
		simulation.WithLookSensitivity(e.cfg.Input.LookSensitivity),
		simulation.WithGravity(sc.Gravity),
	}
	if sc.FloorEnabled {
		opts = append(opts, simulation.WithFloor(sc.FloorHeight))
	}
	integrator := simulation.NewIntegrator(sc.TickDuration(), opts...)

	d := newSimulationDriver(e.simQueue, e.snapshots, e.clock, integrator, sc.TickDuration(), sc.IdleInterval(), e.aspect())
	d.mouseLook = e.cfg.Input.MouseLook
	if e.profilingEnabled {
		d.profiler = profiler.NewProfiler("TPS", profiler.WithClock(e.clock))
	}
	return d
}

func (e *engine) newRenderDriver(r Renderer) *renderDriver {
	rc := e.cfg.Render
	d := newRenderDriver(e.renderQueue, e.snapshots, r, e.clock, rc.MinFrameInterval(), rc.Headroom(), rc.PollInterval())
	if e.profilingEnabled {
		d.profiler = profiler.NewProfiler("FPS", profiler.WithClock(e.clock), profiler.WithDetail(d.stats))
	}
	return d
}

// defaultRenderer creates the WebGPU renderer described by the render configuration.
func (e *engine) defaultRenderer(w window.Window) (Renderer, error) {
	rc := e.cfg.Render
	return renderer.NewRenderer(renderer.BackendTypeWGPU, w,
		renderer.WithPresentMode(renderer.ParsePresentMode(rc.PresentMode)),
		renderer.WithMSAA(renderer.MSAASampleCount(rc.MSAA)),
		renderer.WithInstanceGrid(rc.GridSize, rc.GridSpacing),
	)
}

// pinDriver locks the calling goroutine to its OS thread and, when configured, raises the
// thread's priority. A denied raise is logged and otherwise ignored.
func pinDriver(name string, raise bool) {
	runtime.LockOSThread()
	if !raise {
		return
	}
	if err := thread.Raise(thread.PriorityHigh); err != nil {
		log.Printf("[%s] thread priority unchanged: %v", name, err)
	}
}

// handleSimulation runs the fixed-timestep simulation loop in its own goroutine.
func (e *engine) handleSimulation(d *simulationDriver) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.fail(fmt.Errorf("simulation goroutine panicked: %v", r))
		}
	}()
	pinDriver("Simulation", e.cfg.Simulation.ThreadPriority)
	defer runtime.UnlockOSThread()

	d.run(e.quitChannel)
}

// handleRender runs the paced render loop in its own goroutine and releases the renderer when
// it exits. Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender(d *renderDriver, r Renderer) {
	defer e.wg.Done()
	defer r.Release()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Render] render goroutine recovered from panic: %v", rec)
			e.fail(fmt.Errorf("render goroutine panicked: %v", rec))
		}
	}()
	pinDriver("Render", e.cfg.Render.ThreadPriority)
	defer runtime.UnlockOSThread()

	if err := d.run(e.quitChannel); err != nil {
		log.Printf("[Render] stopping: %v", err)
		e.fail(err)
	}
}

package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/config"
	"github.com/Carmen-Shannon/oxy-view/engine/clock"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeWindow pumps no real messages: ProcessMessages calls the update callback until the window
// is asked to close.
type fakeWindow struct {
	running atomic.Bool
	closed  atomic.Bool
	pumped  chan struct{}

	onUpdate    func()
	onResize    func(width, height int) bool
	onPaint     func() bool
	onKeyDown   func(keyCode uint32, repeat bool) bool
	onKeyUp     func(keyCode uint32) bool
	onMouseMove func(x, y int32) bool
}

var _ window.Window = &fakeWindow{}

func newFakeWindow() *fakeWindow {
	w := &fakeWindow{pumped: make(chan struct{})}
	w.running.Store(true)
	return w
}

func (w *fakeWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *fakeWindow) SetResizeCallback(callback func(width, height int) bool) {
	w.onResize = callback
}

func (w *fakeWindow) SetPaintCallback(callback func() bool) {
	w.onPaint = callback
}

func (w *fakeWindow) SetKeyDownCallback(callback func(keyCode uint32, repeat bool) bool) {
	w.onKeyDown = callback
}

func (w *fakeWindow) SetKeyUpCallback(callback func(keyCode uint32) bool) {
	w.onKeyUp = callback
}

func (w *fakeWindow) SetMouseMoveCallback(callback func(x, y int32) bool) {
	w.onMouseMove = callback
}

func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *fakeWindow) IsRunning() bool {
	return w.running.Load()
}

func (w *fakeWindow) RequestClose() {
	w.running.Store(false)
}

func (w *fakeWindow) Close() error {
	w.closed.Store(true)
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	first := true
	for w.IsRunning() {
		if w.onUpdate != nil {
			w.onUpdate()
		}
		if first {
			close(w.pumped)
			first = false
		}
		time.Sleep(time.Millisecond)
	}
}

func (w *fakeWindow) Width() int {
	return 800
}

func (w *fakeWindow) Height() int {
	return 600
}

// lockedRenderer wraps fakeRenderer for use from the render goroutine while the test observes it.
type lockedRenderer struct {
	mu sync.Mutex
	fakeRenderer
}

func (l *lockedRenderer) Render() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fakeRenderer.Render()
}

func (l *lockedRenderer) frameCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Simulation.ThreadPriority = false
	cfg.Render.ThreadPriority = false
	return cfg
}

func TestEngine_RunWithoutWindow(t *testing.T) {
	e := NewEngine(WithConfig(testConfig()))
	if err := e.Run(); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("expected ErrNoWindow, got %v", err)
	}
}

func TestEngine_RendererFactoryFailure(t *testing.T) {
	boom := errors.New("no adapter")
	e := NewEngine(
		WithConfig(testConfig()),
		WithWindow(newFakeWindow()),
		WithRendererFactory(func(window.Window) (Renderer, error) { return nil, boom }),
	)
	if err := e.Run(); !errors.Is(err, boom) {
		t.Fatalf("expected the factory error, got %v", err)
	}
}

func TestEngine_FatalRenderErrorEndsRun(t *testing.T) {
	boom := errors.New("device lost")
	w := newFakeWindow()
	r := &lockedRenderer{fakeRenderer: fakeRenderer{clock: clock.System(), renderErrs: []error{boom}}}

	e := NewEngine(
		WithConfig(testConfig()),
		WithWindow(w),
		WithRendererFactory(func(window.Window) (Renderer, error) { return r, nil }),
	)

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("expected the render error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("engine did not stop after a fatal render error")
	}
	if !r.released {
		t.Fatalf("renderer was not released")
	}
	if !w.closed.Load() {
		t.Fatalf("window was not closed")
	}
}

func TestEngine_QuitStopsDrivers(t *testing.T) {
	w := newFakeWindow()
	r := &lockedRenderer{fakeRenderer: fakeRenderer{clock: clock.System()}}

	e := NewEngine(
		WithConfig(testConfig()),
		WithWindow(w),
		WithRendererFactory(func(window.Window) (Renderer, error) { return r, nil }),
	)

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	<-w.pumped
	if !e.Dispatcher().Installed() {
		t.Fatalf("queues must be installed before messages are pumped")
	}
	deadline := time.Now().Add(5 * time.Second)
	for r.frameCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	e.Quit()
	e.Quit()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("engine did not stop after Quit")
	}
	if r.frameCount() == 0 {
		t.Fatalf("expected frames before quit")
	}
}

func TestEngine_EventsBeforeRunAreDropped(t *testing.T) {
	w := newFakeWindow()
	e := NewEngine(WithConfig(testConfig()), WithWindow(w))

	if w.onKeyDown == nil {
		t.Fatalf("dispatcher was not bound to the window")
	}
	w.onKeyDown(87, false)
	if e.Dispatcher().Dropped() != 1 {
		t.Fatalf("expected the early event to be dropped, got %d drops", e.Dispatcher().Dropped())
	}
}

// newSteppedEngine builds an engine on a manual clock with its queues installed, so both drivers
// can be stepped from the test goroutine instead of running Run.
func newSteppedEngine(t *testing.T) (*engine, *fakeWindow, *fakeRenderer, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(testStart)
	w := newFakeWindow()
	fr := &fakeRenderer{clock: clk}
	e := NewEngine(
		WithConfig(testConfig()),
		WithWindow(w),
		WithClock(clk),
		WithRendererFactory(func(window.Window) (Renderer, error) { return fr, nil }),
	).(*engine)
	e.dispatcher.Install(e.simQueue, e.renderQueue)
	return e, w, fr, clk
}

// stepDrivers interleaves the two drivers in wake-up order until end, moving the clock to each
// wake-up. Ties go to the simulation.
func stepDrivers(t *testing.T, clk *clock.Manual, sim *simulationDriver, render *renderDriver, end time.Time) {
	t.Helper()
	simAt, renderAt := clk.Now(), clk.Now()
	for {
		next := simAt
		if renderAt.Before(next) {
			next = renderAt
		}
		if !next.Before(end) {
			clk.Set(end)
			return
		}
		clk.Set(next)

		if !simAt.After(renderAt) {
			sim.pass()
			simAt = next.Add(max(sim.idleDuration(next), 0))
			continue
		}
		wait, err := render.pass()
		if err != nil {
			t.Fatalf("render pass: %v", err)
		}
		if wait <= 0 {
			wait = 100 * time.Microsecond
		}
		renderAt = next.Add(wait)
	}
}

func TestEngine_ResizeReachesSimulationAndRenderer(t *testing.T) {
	e, w, fr, clk := newSteppedEngine(t)
	sim, render := e.newSimulationDriver(), e.newRenderDriver(fr)

	stepDrivers(t, clk, sim, render, clk.Now().Add(100*time.Millisecond))
	if got := fr.cameras[len(fr.cameras)-1].Aspect; got != float32(800)/600 {
		t.Fatalf("expected the window aspect before resizing, got %v", got)
	}

	if !w.onResize(1600, 900) {
		t.Fatalf("resize was not handled")
	}
	stepDrivers(t, clk, sim, render, clk.Now().Add(100*time.Millisecond))

	if got := sim.state.Camera.Aspect; got != float32(1600)/900 {
		t.Fatalf("simulation aspect %v, expected 16:9", got)
	}
	if got := fr.cameras[len(fr.cameras)-1].Aspect; got != float32(1600)/900 {
		t.Fatalf("rendered aspect %v, expected 16:9", got)
	}
	if len(fr.resizes) != 1 || fr.resizes[0] != [2]int{1600, 900} {
		t.Fatalf("expected one renderer resize to 1600x900, got %v", fr.resizes)
	}
}

func TestEngine_RendersLatestStateWhileTickingSlower(t *testing.T) {
	e, w, fr, clk := newSteppedEngine(t)
	sim, render := e.newSimulationDriver(), e.newRenderDriver(fr)

	w.onKeyDown(common.KeyW, false)
	stepDrivers(t, clk, sim, render, testStart.Add(time.Second))

	if ticks := sim.state.Tick; ticks < 24 || ticks > 25 {
		t.Fatalf("expected 25Hz ticking, got %d ticks", ticks)
	}
	if n := len(fr.frames); n < 59 || n > 61 {
		t.Fatalf("expected about 60 frames, got %d", n)
	}
	const interval = time.Second / 60
	for i := 1; i < len(fr.frames); i++ {
		if gap := fr.frames[i].Sub(fr.frames[i-1]); gap < interval {
			t.Fatalf("frames %d and %d only %v apart", i-1, i, gap)
		}
	}

	// Moving forward only decreases Z, so an older state reaching the renderer would show up as
	// an increase.
	poses := map[float32]bool{}
	for i, cam := range fr.cameras {
		poses[cam.Position.Z()] = true
		if i > 0 && cam.Position.Z() > fr.cameras[i-1].Position.Z() {
			t.Fatalf("camera update %d went back to an older state", i)
		}
	}
	if len(poses) > int(sim.state.Tick)+1 {
		t.Fatalf("%d distinct poses from %d ticks", len(poses), sim.state.Tick)
	}
	if len(poses) >= len(fr.frames) {
		t.Fatalf("expected frames to repeat poses between ticks, got %d poses for %d frames", len(poses), len(fr.frames))
	}
	if fr.cameras[len(fr.cameras)-1] != sim.state.Camera {
		t.Fatalf("last rendered camera is not the latest simulated one")
	}
}

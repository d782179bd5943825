package engine

import (
	"errors"
	"fmt"
	"log"
	"math/bits"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/clock"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/simulation"
	"github.com/Carmen-Shannon/oxy-view/engine/snapshot"
)

// frameRenderer is the part of renderer.Renderer the render driver uses.
type frameRenderer interface {
	UpdateCamera(cam simulation.Camera)
	Resize(width, height int)
	SetPointer(x, y int32)
	Render() error
	Reconfigure() error
}

// renderDriver submits frames at a variable pace, capped by a minimum frame interval, always
// drawing the latest snapshot it has taken. It never waits for the simulation.
type renderDriver struct {
	queue     *event.Queue
	snapshots *snapshot.Channel[simulation.State]
	renderer  frameRenderer
	clock     clock.Clock

	minInterval time.Duration
	headroom    time.Duration
	poll        time.Duration

	pending          []event.Event
	lastFrame        time.Time
	hasSnapshot      bool
	needsReconfigure bool

	frames        uint64
	paints        uint64
	surfaceErrors uint64

	// surfaceErrorStreak counts consecutive frames lost to surface errors.
	surfaceErrorStreak uint64

	// profiler is nil unless profiling is enabled.
	profiler *profiler.Profiler
}

// newRenderDriver creates a render driver.
//
// Parameters:
//   - queue: the render event queue
//   - snapshots: the channel snapshots are taken from
//   - r: the renderer frames are submitted to
//   - clk: the time source
//   - minInterval: the shortest time between frames, 0 for uncapped
//   - headroom: how much earlier than the deadline a pacing sleep ends
//   - poll: the longest single sleep, bounding event and shutdown latency
//
// Returns:
//   - *renderDriver: the new driver
func newRenderDriver(queue *event.Queue, snapshots *snapshot.Channel[simulation.State], r frameRenderer, clk clock.Clock, minInterval, headroom, poll time.Duration) *renderDriver {
	return &renderDriver{
		queue:       queue,
		snapshots:   snapshots,
		renderer:    r,
		clock:       clk,
		minInterval: minInterval,
		headroom:    headroom,
		poll:        poll,
		pending:     make([]event.Event, 0, 64),
	}
}

// run loops until quit is closed or the renderer fails fatally.
//
// Returns:
//   - error: the fatal renderer error, nil on a normal shutdown
func (d *renderDriver) run(quit <-chan struct{}) error {
	for {
		select {
		case <-quit:
			return nil
		default:
		}

		wait, err := d.pass()
		if err != nil {
			return err
		}
		if !d.clock.Sleep(quit, wait) {
			return nil
		}
	}
}

// pass drains events, takes the latest snapshot and submits a frame if one is due.
//
// Returns:
//   - time.Duration: how long to sleep before the next pass, non-positive to only yield
//   - error: a fatal renderer error
func (d *renderDriver) pass() (time.Duration, error) {
	d.drain()

	if st, ok := d.snapshots.TryTake(); ok {
		d.renderer.UpdateCamera(st.Camera)
		d.hasSnapshot = true
	}

	if d.needsReconfigure {
		if err := d.renderer.Reconfigure(); err != nil {
			return 0, err
		}
		d.needsReconfigure = false
	}

	if !d.hasSnapshot {
		return d.poll, nil
	}

	now := d.clock.Now()
	if d.frameDue(now) {
		if err := d.submit(); err != nil {
			return 0, err
		}
		d.lastFrame = now
	}
	return d.sleepDuration(now), nil
}

func (d *renderDriver) drain() {
	d.pending = d.queue.Drain(d.pending[:0])
	for _, e := range d.pending {
		switch e.Kind {
		case event.KindResize:
			if e.HasArea() {
				d.renderer.Resize(e.Width, e.Height)
			}
		case event.KindPointerMove:
			d.renderer.SetPointer(e.X, e.Y)
		case event.KindPaint:
			// Frames are drawn continuously, so the next paced frame satisfies the request.
			d.paints++
		default:
			log.Printf("[Render] discarding unexpected event %s", e)
		}
	}
}

// frameDue reports whether the minimum frame interval has elapsed since the last frame.
func (d *renderDriver) frameDue(now time.Time) bool {
	if d.minInterval <= 0 || d.lastFrame.IsZero() {
		return true
	}
	return !now.Before(d.lastFrame.Add(d.minInterval))
}

// sleepDuration is the pacing sleep: the time left until the next frame minus the headroom,
// bounded by the poll interval. Inside the headroom it sleeps exactly the time left, so only
// an uncapped driver or a frame already due gets a non-positive wait.
func (d *renderDriver) sleepDuration(now time.Time) time.Duration {
	if d.minInterval <= 0 {
		return 0
	}
	remaining := d.lastFrame.Add(d.minInterval).Sub(now)
	if remaining <= 0 {
		return 0
	}
	if remaining <= d.headroom {
		return remaining
	}
	return min(remaining-d.headroom, d.poll)
}

// submit renders one frame. Surface errors cost the frame only; anything else is fatal.
func (d *renderDriver) submit() error {
	err := d.renderer.Render()
	switch {
	case err == nil:
		d.frames++
		d.surfaceErrorStreak = 0
		if d.profiler != nil {
			d.profiler.Tick()
		}
		return nil
	case renderer.NeedsReconfigure(err):
		d.needsReconfigure = true
		d.surfaceError(err)
		return nil
	case errors.Is(err, renderer.ErrSurfaceTimeout):
		d.surfaceError(err)
		return nil
	default:
		return fmt.Errorf("render failed: %w", err)
	}
}

// surfaceError counts a dropped frame, logging the first of a streak and then every power of two.
func (d *renderDriver) surfaceError(err error) {
	d.surfaceErrors++
	d.surfaceErrorStreak++
	if bits.OnesCount64(d.surfaceErrorStreak) == 1 {
		log.Printf("[Render] frame dropped (%d in a row): %v", d.surfaceErrorStreak, err)
	}
}

// stats formats the counters for the profiler report.
func (d *renderDriver) stats() string {
	return fmt.Sprintf("Frames: %d | Surface errors: %d | Paints: %d | Snapshots superseded: %d",
		d.frames, d.surfaceErrors, d.paints, d.snapshots.Superseded())
}

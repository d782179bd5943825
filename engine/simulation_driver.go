package engine

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/clock"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/simulation"
	"github.com/Carmen-Shannon/oxy-view/engine/snapshot"
)

// simulationDriver advances the simulation at a fixed tick rate. Every pass drains its queue,
// runs every tick boundary that has elapsed, publishes a snapshot and idles until the next
// boundary. It owns its input and simulation state; nothing else touches them.
type simulationDriver struct {
	queue      *event.Queue
	snapshots  *snapshot.Channel[simulation.State]
	clock      clock.Clock
	integrator *simulation.Integrator
	bindings   input.Bindings
	mouseLook  bool

	input    input.State
	state    simulation.State
	pending  []event.Event
	tick     time.Duration
	idle     time.Duration
	boundary time.Time

	// profiler is nil unless profiling is enabled.
	profiler *profiler.Profiler
}

// newSimulationDriver creates a driver whose first tick boundary is the current time.
//
// Parameters:
//   - queue: the simulation event queue
//   - snapshots: the channel snapshots are published to
//   - clk: the time source
//   - integrator: the per-tick camera integrator
//   - tick: the fixed tick duration
//   - idle: the longest idle sleep between passes
//   - aspect: the initial camera aspect ratio
//
// Returns:
//   - *simulationDriver: the new driver
func newSimulationDriver(queue *event.Queue, snapshots *snapshot.Channel[simulation.State], clk clock.Clock, integrator *simulation.Integrator, tick, idle time.Duration, aspect float32) *simulationDriver {
	now := clk.Now()
	return &simulationDriver{
		queue:      queue,
		snapshots:  snapshots,
		clock:      clk,
		integrator: integrator,
		bindings:   input.DefaultBindings(),
		state:      simulation.NewState(aspect, now),
		pending:    make([]event.Event, 0, 64),
		tick:       tick,
		idle:       idle,
		boundary:   now,
	}
}

// run loops until quit is closed.
func (d *simulationDriver) run(quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		default:
		}

		d.pass()
		if !d.clock.Sleep(quit, d.idleDuration(d.clock.Now())) {
			return
		}
	}
}

// pass runs one Draining, Ticking and Publishing cycle.
//
// Returns:
//   - int: the number of ticks processed
func (d *simulationDriver) pass() int {
	d.drain()
	ticks := d.advance(d.clock.Now())
	d.snapshots.Publish(d.state)
	return ticks
}

// drain empties the queue under its lock, then applies the events with the lock released.
func (d *simulationDriver) drain() {
	d.pending = d.queue.Drain(d.pending[:0])
	for _, e := range d.pending {
		d.apply(e)
	}
}

func (d *simulationDriver) apply(e event.Event) {
	switch e.Kind {
	case event.KindKeyDown:
		d.input.Press(d.bindings.Lookup(e.Key), e.Repeat)
	case event.KindKeyUp:
		d.input.Release(d.bindings.Lookup(e.Key))
	case event.KindResize:
		if e.HasArea() {
			d.state.SetAspect(float32(e.Width) / float32(e.Height))
		}
	case event.KindPointerMove:
		if d.mouseLook {
			d.input.MovePointer(e.X, e.Y)
		}
	default:
		log.Printf("[Simulation] discarding unexpected event %s", e)
	}
}

// advance runs one integrator step for every tick boundary at or before now. Ticks are never
// skipped: a driver that fell behind catches up one fixed step at a time.
//
// Parameters:
//   - now: the current time
//
// Returns:
//   - int: the number of ticks processed
func (d *simulationDriver) advance(now time.Time) int {
	ticks := 0
	for now.Sub(d.boundary) >= d.tick {
		d.boundary = d.boundary.Add(d.tick)
		dx, dy := d.input.ConsumePointer()
		d.state.Advance(&d.input, simulation.LookDelta{DX: dx, DY: dy}, d.integrator, d.boundary)
		ticks++
		if d.profiler != nil {
			d.profiler.Tick()
		}
	}
	return ticks
}

// idleDuration is the sleep before the next pass: the idle interval, cut short by the next
// tick boundary. A non-positive result means the next tick is already due.
func (d *simulationDriver) idleDuration(now time.Time) time.Duration {
	untilTick := d.boundary.Add(d.tick).Sub(now)
	return min(d.idle, untilTick)
}

// Package dispatcher classifies raw window notifications into typed events and routes copies of
// them to the simulation and render queues.
package dispatcher

import (
	"log"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/engine/event"
)

// EventSource is the window side of the dispatcher: anything that reports window notifications
// through registered callbacks. Each callback returns true when the notification was handled;
// on false the source applies its own default handling.
type EventSource interface {
	// SetResizeCallback sets the function called when the client area changes size.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int) bool)

	// SetPaintCallback sets the function called when the window contents need redrawing.
	//
	// Parameters:
	//   - callback: function called on every redraw request
	SetPaintCallback(callback func() bool)

	// SetMouseMoveCallback sets the callback for pointer movement.
	//
	// Parameters:
	//   - callback: function receiving the pointer x, y position
	SetMouseMoveCallback(callback func(x, y int32) bool)

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code and whether the press is an autorepeat
	SetKeyDownCallback(callback func(keyCode uint32, repeat bool) bool)

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(keyCode uint32) bool)
}

// Target is a set of destination queues.
type Target uint8

const (
	// TargetSimulation is the simulation driver queue.
	TargetSimulation Target = 1 << iota
	// TargetRender is the render driver queue.
	TargetRender

	// TargetNone routes nowhere.
	TargetNone Target = 0
)

// Has reports whether t includes other.
func (t Target) Has(other Target) bool {
	return t&other != 0
}

// Route returns the queues an event kind is delivered to.
//
// Resize reaches both drivers. Paint and pointer movement are cosmetic and only reach the render
// driver, unless mouse-look is on, in which case pointer movement also steers the simulation.
// Keys only reach the simulation.
//
// Parameters:
//   - kind: the event kind
//   - mouseLook: whether pointer movement drives the camera look direction
//
// Returns:
//   - Target: the destination queues
func Route(kind event.Kind, mouseLook bool) Target {
	switch kind {
	case event.KindResize:
		return TargetSimulation | TargetRender
	case event.KindPaint:
		return TargetRender
	case event.KindPointerMove:
		if mouseLook {
			return TargetSimulation | TargetRender
		}
		return TargetRender
	case event.KindKeyDown, event.KindKeyUp:
		return TargetSimulation
	default:
		return TargetNone
	}
}

// queues is the installed pair of destination queues, swapped in atomically as one value.
type queues struct {
	simulation *event.Queue
	render     *event.Queue
}

// Dispatcher runs on the window thread. It only copies events into queues, so it never blocks
// on either driver.
type Dispatcher struct {
	queues atomic.Pointer[queues]

	mouseLook bool

	routed  atomic.Uint64
	dropped atomic.Uint64
}

// NewDispatcher creates a dispatcher with no queues installed. Until Install is called every
// event is dropped and reported as not handled.
//
// Parameters:
//   - options: functional options for dispatcher configuration
//
// Returns:
//   - *Dispatcher: the new dispatcher
func NewDispatcher(options ...DispatcherBuilderOption) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Install attaches the driver queues. Events arriving before this call are lost.
//
// Parameters:
//   - simulation: the simulation driver queue
//   - render: the render driver queue
func (d *Dispatcher) Install(simulation, render *event.Queue) {
	d.queues.Store(&queues{simulation: simulation, render: render})
}

// Installed reports whether Install has been called.
func (d *Dispatcher) Installed() bool {
	return d.queues.Load() != nil
}

// Bind registers the dispatcher's handlers on src.
//
// Parameters:
//   - src: the window to receive notifications from
func (d *Dispatcher) Bind(src EventSource) {
	src.SetResizeCallback(d.HandleResize)
	src.SetPaintCallback(d.HandlePaint)
	src.SetMouseMoveCallback(d.HandleMouseMove)
	src.SetKeyDownCallback(d.HandleKeyDown)
	src.SetKeyUpCallback(d.HandleKeyUp)
}

// Dispatch pushes a copy of e into every queue its kind routes to.
//
// Parameters:
//   - e: the event to deliver
//
// Returns:
//   - bool: false when no queues are installed or the event routes nowhere
func (d *Dispatcher) Dispatch(e event.Event) bool {
	q := d.queues.Load()
	if q == nil {
		d.dropped.Add(1)
		return false
	}

	target := Route(e.Kind, d.mouseLook)
	if target == TargetNone {
		log.Printf("[Dispatcher] discarding unroutable event %v", e)
		d.dropped.Add(1)
		return false
	}

	if target.Has(TargetSimulation) {
		q.simulation.Push(e)
	}
	if target.Has(TargetRender) {
		q.render.Push(e)
	}
	d.routed.Add(1)
	return true
}

// HandleResize routes a resize notification.
func (d *Dispatcher) HandleResize(width, height int) bool {
	return d.Dispatch(event.Resize(width, height))
}

// HandlePaint routes a redraw request.
func (d *Dispatcher) HandlePaint() bool {
	return d.Dispatch(event.Paint())
}

// HandleMouseMove routes a pointer movement.
func (d *Dispatcher) HandleMouseMove(x, y int32) bool {
	return d.Dispatch(event.PointerMove(x, y))
}

// HandleKeyDown routes a key press.
func (d *Dispatcher) HandleKeyDown(keyCode uint32, repeat bool) bool {
	return d.Dispatch(event.KeyDown(keyCode, repeat))
}

// HandleKeyUp routes a key release.
func (d *Dispatcher) HandleKeyUp(keyCode uint32) bool {
	return d.Dispatch(event.KeyUp(keyCode))
}

// Routed returns how many events were delivered to at least one queue.
func (d *Dispatcher) Routed() uint64 {
	return d.routed.Load()
}

// Dropped returns how many events were discarded, either before Install or as unroutable.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

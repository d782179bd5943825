// Package input holds the latched control state the simulation integrates against.
package input

import "github.com/Carmen-Shannon/oxy-view/common"

// Control is a logical movement control.
type Control uint8

const (
	// ControlNone is returned for keys that are not bound to any control.
	ControlNone Control = iota
	ControlForward
	ControlBackward
	ControlLeft
	ControlRight
)

// Bindings maps key codes to controls.
type Bindings map[uint32]Control

// DefaultBindings binds WASD and the arrow keys.
//
// Returns:
//   - Bindings: a fresh binding table the caller may modify
func DefaultBindings() Bindings {
	return Bindings{
		common.KeyW:     ControlForward,
		common.KeyUp:    ControlForward,
		common.KeyS:     ControlBackward,
		common.KeyDown:  ControlBackward,
		common.KeyA:     ControlLeft,
		common.KeyLeft:  ControlLeft,
		common.KeyD:     ControlRight,
		common.KeyRight: ControlRight,
	}
}

// Lookup returns the control bound to key, or ControlNone.
func (b Bindings) Lookup(key uint32) Control {
	return b[key]
}

// State is the record of currently held controls plus the pointer movement accumulated since
// it was last consumed. It is owned by the simulation driver and never shared across goroutines.
type State struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool

	// PointerDX and PointerDY accumulate pointer movement in pixels.
	PointerDX float32
	PointerDY float32

	pointerX, pointerY int32
	hasPointer         bool
}

// Press latches a control as held. An autorepeat press never changes state: it only ever arrives
// while the control is already held, and a release in between must win.
//
// Parameters:
//   - c: the control being pressed
//   - repeat: true when the press was generated by keyboard autorepeat
func (s *State) Press(c Control, repeat bool) {
	if repeat {
		return
	}
	s.set(c, true)
}

// Release clears a held control.
//
// Parameters:
//   - c: the control being released
func (s *State) Release(c Control) {
	s.set(c, false)
}

// Held reports whether a control is currently held.
func (s *State) Held(c Control) bool {
	switch c {
	case ControlForward:
		return s.Forward
	case ControlBackward:
		return s.Backward
	case ControlLeft:
		return s.Left
	case ControlRight:
		return s.Right
	}
	return false
}

func (s *State) set(c Control, held bool) {
	switch c {
	case ControlForward:
		s.Forward = held
	case ControlBackward:
		s.Backward = held
	case ControlLeft:
		s.Left = held
	case ControlRight:
		s.Right = held
	}
}

// MovePointer records an absolute pointer position and accumulates the delta from the previous
// one. The first position only establishes the origin.
//
// Parameters:
//   - x, y: pointer position in window coordinates
func (s *State) MovePointer(x, y int32) {
	if s.hasPointer {
		s.PointerDX += float32(x - s.pointerX)
		s.PointerDY += float32(y - s.pointerY)
	}
	s.pointerX, s.pointerY = x, y
	s.hasPointer = true
}

// ConsumePointer returns the accumulated pointer delta and resets it.
//
// Returns:
//   - dx, dy: pointer movement since the previous call
func (s *State) ConsumePointer() (dx, dy float32) {
	dx, dy = s.PointerDX, s.PointerDY
	s.PointerDX, s.PointerDY = 0, 0
	return dx, dy
}

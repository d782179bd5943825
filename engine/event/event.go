// Package event defines the typed window events exchanged between the dispatcher and the drivers,
// and the mutex-guarded FIFO queue each driver drains.
package event

import "fmt"

// Kind tags the variant held by an Event.
type Kind uint8

const (
	// KindInvalid is the zero Kind. An Event with this tag was never built by a constructor.
	KindInvalid Kind = iota
	// KindResize carries the new client area size in Width and Height.
	KindResize
	// KindPaint is a redraw request with no payload.
	KindPaint
	// KindPointerMove carries the pointer position in X and Y.
	KindPointerMove
	// KindKeyDown carries Key and the Repeat flag set by keyboard autorepeat.
	KindKeyDown
	// KindKeyUp carries Key.
	KindKeyUp
)

func (k Kind) String() string {
	switch k {
	case KindResize:
		return "Resize"
	case KindPaint:
		return "Paint"
	case KindPointerMove:
		return "PointerMove"
	case KindKeyDown:
		return "KeyDown"
	case KindKeyUp:
		return "KeyUp"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is a window event. It is a small value type, copied into every queue it is routed to,
// and only the fields belonging to its Kind are meaningful.
type Event struct {
	Kind Kind

	// Width and Height are set for KindResize.
	Width, Height int

	// X and Y are set for KindPointerMove.
	X, Y int32

	// Key is set for KindKeyDown and KindKeyUp.
	Key uint32

	// Repeat is set for KindKeyDown when the key was already held (autorepeat).
	Repeat bool
}

// Resize builds a resize event.
//
// Parameters:
//   - width, height: new client area size in pixels
//
// Returns:
//   - Event: the resize event
func Resize(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// Paint builds a redraw-request event.
//
// Returns:
//   - Event: the paint event
func Paint() Event {
	return Event{Kind: KindPaint}
}

// PointerMove builds a pointer-move event.
//
// Parameters:
//   - x, y: pointer position in window coordinates
//
// Returns:
//   - Event: the pointer-move event
func PointerMove(x, y int32) Event {
	return Event{Kind: KindPointerMove, X: x, Y: y}
}

// KeyDown builds a key press event.
//
// Parameters:
//   - key: the GLFW key code
//   - repeat: true when generated by autorepeat while the key is held
//
// Returns:
//   - Event: the key-down event
func KeyDown(key uint32, repeat bool) Event {
	return Event{Kind: KindKeyDown, Key: key, Repeat: repeat}
}

// KeyUp builds a key release event.
//
// Parameters:
//   - key: the GLFW key code
//
// Returns:
//   - Event: the key-up event
func KeyUp(key uint32) Event {
	return Event{Kind: KindKeyUp, Key: key}
}

// Valid reports whether the event tag names a known variant.
func (e Event) Valid() bool {
	return e.Kind >= KindResize && e.Kind <= KindKeyUp
}

// HasArea reports whether a resize event describes a drawable (non-zero) area.
// Minimized windows report 0x0 and must not reach the camera aspect or the GPU surface.
func (e Event) HasArea() bool {
	return e.Kind == KindResize && e.Width > 0 && e.Height > 0
}

func (e Event) String() string {
	switch e.Kind {
	case KindResize:
		return fmt.Sprintf("Resize(%dx%d)", e.Width, e.Height)
	case KindPaint:
		return "Paint"
	case KindPointerMove:
		return fmt.Sprintf("PointerMove(%d,%d)", e.X, e.Y)
	case KindKeyDown:
		return fmt.Sprintf("KeyDown(%d, repeat=%t)", e.Key, e.Repeat)
	case KindKeyUp:
		return fmt.Sprintf("KeyUp(%d)", e.Key)
	default:
		return e.Kind.String()
	}
}

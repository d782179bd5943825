package window

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input notifications.
// Wraps platform-specific window implementations with a common interface.
//
// Every notification callback returns whether it handled the notification. All callbacks run on
// the thread that called NewWindow, inside ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int) bool)

	// SetPaintCallback sets the function called when the window contents are damaged and need
	// to be redrawn.
	//
	// Parameters:
	//   - callback: function called on every redraw request
	SetPaintCallback(callback func() bool)

	// SetKeyDownCallback sets the callback for key press and autorepeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code and true for autorepeat presses
	SetKeyDownCallback(callback func(keyCode uint32, repeat bool) bool)

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(keyCode uint32) bool)

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position
	SetMouseMoveCallback(callback func(x, y int32) bool)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to exit. Unlike Close it is safe to call from any
	// goroutine; the window is destroyed later by Close on the window thread.
	RequestClose()

	// Close closes the window and releases platform resources.
	// Must be called on the window thread after ProcessMessages returns.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// pollInterval bounds how long one message loop iteration waits for events.
	pollInterval time.Duration

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int) bool

	// onPaint is called when the window needs redrawing.
	onPaint func() bool

	// onKeyDown is called when a key is pressed or autorepeats.
	onKeyDown func(keyCode uint32, repeat bool) bool

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode uint32) bool

	// onMouseMove is called when the mouse moves within the window.
	onMouseMove func(x, y int32) bool

	// unhandled counts notifications no callback accepted.
	unhandled uint64
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
// The calling goroutine is locked to its OS thread and becomes the window thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:        "oxy-view",
		maxWidth:     2560,
		maxHeight:    1440,
		minWidth:     320,
		minHeight:    200,
		width:        1280,
		height:       720,
		pollInterval: 5 * time.Millisecond,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int) bool) {
	w.onResize = callback
}

func (w *engineWindow) SetPaintCallback(callback func() bool) {
	w.onPaint = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32, repeat bool) bool) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32) bool) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32) bool) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// deliver records a notification nobody handled. GLFW has no default window procedure, so the
// only fallback is to account for it.
func (w *engineWindow) deliver(handled bool) {
	if !handled {
		w.unhandled++
	}
}

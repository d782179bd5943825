package renderer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSurfaceLost means the surface must be reconfigured before the next frame.
	ErrSurfaceLost = errors.New("surface lost")

	// ErrSurfaceOutdated means the surface no longer matches the window, usually after a resize
	// that has not been applied yet. Reconfiguring fixes it.
	ErrSurfaceOutdated = errors.New("surface outdated")

	// ErrSurfaceTimeout means no swapchain image became available in time. The frame is skipped.
	ErrSurfaceTimeout = errors.New("surface acquire timed out")

	// ErrDeviceLost is fatal: the GPU device can no longer be used.
	ErrDeviceLost = errors.New("device lost")
)

// NeedsReconfigure reports whether err is recovered by reconfiguring the surface.
//
// Parameters:
//   - err: an error returned by Render
//
// Returns:
//   - bool: true for ErrSurfaceLost and ErrSurfaceOutdated
func NeedsReconfigure(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}

// IsTransient reports whether err only costs the current frame.
//
// Parameters:
//   - err: an error returned by Render
//
// Returns:
//   - bool: true for every surface error, false for nil and fatal errors
func IsTransient(err error) bool {
	return NeedsReconfigure(err) || errors.Is(err, ErrSurfaceTimeout)
}

// classifyAcquireError maps a swapchain acquisition failure onto the surface sentinels.
// The native layer reports only a message, so classification goes by its wording. Unknown
// acquisition failures are treated as an outdated surface, since reconfiguring is the only
// recovery available and is harmless when unnecessary.
func classifyAcquireError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "device"):
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return fmt.Errorf("%w: %v", ErrSurfaceTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrSurfaceOutdated, err)
	}
}
